package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/apkship/internal/core/domain"
)

func (c *CLI) newPackageCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "package <debug|development|release>",
		Short:     "Assemble a package variant from the staged libraries",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"debug", string(domain.VariantDevelopment), string(domain.VariantRelease)},
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := c.app.Package(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, artifact.Path)
			if artifact.Signed() {
				_, _ = fmt.Fprintf(out, "signed: %s (%s)\n", artifact.Signature.CertificateSHA1, artifact.Signature.Channel)
			} else {
				_, _ = fmt.Fprintf(out, "unsigned: %s\n", artifact.Signing.Reason)
			}
			return nil
		},
	}
}
