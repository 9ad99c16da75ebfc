// Package apksigner signs packages with the SDK apksigner tool.
package apksigner

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // certificate fingerprints are SHA-1 by convention
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/apkship/internal/adapters/sdk"
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/crypto/pkcs12"
)

// Child environment variables carrying the passwords. apksigner reads them through
// its env: password source so the secrets never appear on a command line.
const (
	storePasswordEnv = "APKSHIP_KS_PASS"
	keyPasswordEnv   = "APKSHIP_KEY_PASS"
)

// ToolName is the signing tool looked up on PATH when no SDK is configured.
const ToolName = "apksigner"

// Signer implements ports.Signer.
type Signer struct {
	executor ports.Executor
	sdk      *sdk.Locator
	logger   ports.Logger
}

var _ ports.Signer = (*Signer)(nil)

// NewSigner creates a new Signer.
func NewSigner(executor ports.Executor, env ports.Environment, logger ports.Logger) *Signer {
	return &Signer{executor: executor, sdk: sdk.NewLocator(env, logger), logger: logger}
}

// Sign checks the identity against the keystore where possible, signs the package
// and reports the certificate it was signed with.
func (s *Signer) Sign(ctx context.Context, req domain.SignRequest) (*domain.SignatureInfo, error) {
	id := req.Identity
	if _, err := os.Stat(id.KeystorePath); err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(err, "keystore not readable"),
			"field", domain.FieldKeystorePath), "path", id.KeystorePath)
	}

	fingerprint, err := s.preflight(id)
	if err != nil {
		return nil, err
	}

	tool := s.sdk.BuildTool(req.BuildToolsVersion, ToolName)
	sign := &domain.Command{
		Name: tool,
		Args: []string{
			"sign",
			"--ks", id.KeystorePath,
			"--ks-key-alias", id.KeyAlias,
			"--ks-pass", "env:" + storePasswordEnv,
			"--key-pass", "env:" + keyPasswordEnv,
			"--out", req.Output,
			req.Input,
		},
		Env: map[string]string{
			storePasswordEnv: id.StorePassword,
			keyPasswordEnv:   id.KeyPassword,
		},
	}
	if err := s.executor.Execute(ctx, sign, nil, nil); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "apksigner sign failed"), "keystore", id.KeystorePath)
	}

	if fingerprint == "" {
		fingerprint, err = s.printCertificate(ctx, tool, req.Output)
		if err != nil {
			return nil, err
		}
	}

	info := &domain.SignatureInfo{CertificateSHA1: fingerprint, Channel: domain.ChannelFor(fingerprint)}
	s.logger.Info(fmt.Sprintf("signed %s for %s (certificate %s)", filepath.Base(req.Output), info.Channel, fingerprint))
	return info, nil
}

// preflight opens PKCS#12 keystores to reject a wrong store password or an unknown
// alias before the signing tool runs. It returns the certificate fingerprint, or an
// empty string when the keystore format cannot be inspected.
func (s *Signer) preflight(id domain.SigningIdentity) (string, error) {
	ext := strings.ToLower(filepath.Ext(id.KeystorePath))
	if ext != ".p12" && ext != ".pfx" {
		return "", nil
	}

	data, err := os.ReadFile(id.KeystorePath)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read keystore"), "field", domain.FieldKeystorePath)
	}

	blocks, err := pkcs12.ToPEM(data, id.StorePassword)
	if errors.Is(err, pkcs12.ErrIncorrectPassword) {
		return "", zerr.With(zerr.Wrap(err, "keystore rejected the store password"), "field", domain.FieldStorePassword)
	}
	if err != nil {
		s.logger.Warn(fmt.Sprintf("cannot inspect keystore %s, leaving verification to apksigner: %v",
			id.KeystorePath, err))
		return "", nil
	}

	var (
		aliases []string
		cert    []byte
	)
	for _, block := range blocks {
		name := block.Headers["friendlyName"]
		if name != "" {
			aliases = append(aliases, name)
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		if strings.EqualFold(name, id.KeyAlias) || cert == nil {
			cert = block.Bytes
		}
	}

	if len(aliases) > 0 && !containsFold(aliases, id.KeyAlias) {
		return "", zerr.With(zerr.With(zerr.New("keystore has no entry for the key alias"),
			"field", domain.FieldKeyAlias), "alias", id.KeyAlias)
	}
	if cert == nil {
		return "", nil
	}

	sum := sha1.Sum(cert) //nolint:gosec // fingerprint, not a security boundary
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func containsFold(names []string, want string) bool {
	for _, n := range names {
		if strings.EqualFold(n, want) {
			return true
		}
	}
	return false
}

// printCertificate asks apksigner for the SHA-1 digest of the first signer certificate.
func (s *Signer) printCertificate(ctx context.Context, tool, apk string) (string, error) {
	var stdout bytes.Buffer
	verify := &domain.Command{Name: tool, Args: []string{"verify", "--print-certs", apk}}
	if err := s.executor.Execute(ctx, verify, &stdout, nil); err != nil {
		return "", zerr.With(zerr.Wrap(err, "apksigner verify failed"), "path", apk)
	}
	return ParseCertificateDigest(stdout.String())
}

// ParseCertificateDigest extracts the SHA-1 digest of the first signer from
// apksigner verify --print-certs output and returns it base64 encoded.
func ParseCertificateDigest(output string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "certificate SHA-1 digest:") {
			continue
		}
		hexDigest := strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])
		raw, err := hex.DecodeString(hexDigest)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "malformed certificate digest"), "digest", hexDigest)
		}
		return base64.StdEncoding.EncodeToString(raw), nil
	}
	return "", zerr.New("apksigner printed no certificate digest")
}
