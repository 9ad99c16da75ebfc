package apk

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/zerr"
)

// LinkTool is the resource linker of the SDK build-tools.
const LinkTool = "aapt2"

// Names inside the linked base package and the application payload.
const (
	ManifestEntry  = "AndroidManifest.xml"
	ResourcesEntry = "resources.arsc"
	resourceDir    = "res"
)

// resourcesAlignment is the boundary the resource table must start on to be mapped.
const resourcesAlignment = 4

var defaultManifest = template.Must(template.New(ManifestEntry).Parse(`<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="{{.Package}}">
    <application android:label="syncthing" android:extractNativeLibs="{{.ExtractNativeLibs}}" />
</manifest>
`))

var (
	applicationTag   = regexp.MustCompile(`<application\b`)
	extractAttribute = regexp.MustCompile(`android:extractNativeLibs\s*=\s*"[^"]*"`)
	manifestClose    = regexp.MustCompile(`</manifest\s*>`)
)

// link compiles the manifest and resources of spec into a base package in work.
// Identity, version and debuggability are applied by the linker flags; native
// library extraction is set on the manifest source.
func (p *Packager) link(ctx context.Context, spec domain.PackageSpec, work string) (string, error) {
	platform, err := p.sdk.Platform(spec.CompileSDK)
	if err != nil {
		return "", err
	}
	tool := p.sdk.BuildTool(spec.BuildToolsVersion, LinkTool)

	manifest, err := manifestSource(spec)
	if err != nil {
		return "", err
	}
	manifestPath := filepath.Join(work, ManifestEntry)
	if err := os.WriteFile(manifestPath, manifest, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", manifestPath)
	}

	base := filepath.Join(work, "base.apk")
	args := []string{
		"link",
		"--manifest", manifestPath,
		"-I", platform,
		"-o", base,
		"--rename-manifest-package", spec.Variant.ApplicationID,
		"--version-code", strconv.FormatInt(spec.VersionCode, 10),
		"--version-name", spec.VersionName,
	}
	if spec.MinSDK > 0 {
		args = append(args, "--min-sdk-version", strconv.Itoa(spec.MinSDK))
	}
	if spec.TargetSDK > 0 {
		args = append(args, "--target-sdk-version", strconv.Itoa(spec.TargetSDK))
	}
	if spec.Variant.Debuggable {
		args = append(args, "--debug-mode")
	}

	if res := resourcesOf(spec); res != "" {
		compiled := filepath.Join(work, "res.zip")
		if err := p.run(ctx, tool, "compile", "--dir", res, "-o", compiled); err != nil {
			return "", err
		}
		args = append(args, "-R", compiled, "--auto-add-overlay")
	}

	if err := p.run(ctx, tool, args...); err != nil {
		return "", err
	}
	return base, nil
}

func (p *Packager) run(ctx context.Context, tool string, args ...string) error {
	var stderr bytes.Buffer
	cmd := &domain.Command{Name: tool, Args: args}
	if err := p.executor.Execute(ctx, cmd, nil, &stderr); err != nil {
		failure := zerr.With(zerr.Wrap(domain.ErrVariantBuild, LinkTool+" "+args[0]+" failed"), "tool", tool)
		if out := strings.TrimSpace(stderr.String()); out != "" {
			failure = zerr.With(failure, "diagnostic", out)
		}
		return errors.Join(failure, err)
	}
	return nil
}

// manifestSource returns the payload manifest, or a minimal one when the payload
// has none, with android:extractNativeLibs set from the packaging policy.
func manifestSource(spec domain.PackageSpec) ([]byte, error) {
	extract := spec.Policy.LegacyNativePackaging
	if spec.ShellDir != "" {
		path := filepath.Join(spec.ShellDir, ManifestEntry)
		data, err := os.ReadFile(path) // #nosec G304 -- path is below the configured shell dir
		switch {
		case err == nil:
			return withExtractNativeLibs(data, extract), nil
		case !os.IsNotExist(err):
			return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
		}
	}

	var b bytes.Buffer
	if err := defaultManifest.Execute(&b, struct {
		Package           string
		ExtractNativeLibs bool
	}{spec.Variant.ApplicationID, extract}); err != nil {
		return nil, zerr.Wrap(err, "failed to render manifest")
	}
	return b.Bytes(), nil
}

// withExtractNativeLibs sets android:extractNativeLibs on the application element,
// adding the element when the manifest declares none.
func withExtractNativeLibs(manifest []byte, extract bool) []byte {
	attr := `android:extractNativeLibs="` + strconv.FormatBool(extract) + `"`

	loc := applicationTag.FindIndex(manifest)
	if loc == nil {
		end := manifestClose.FindIndex(manifest)
		if end == nil {
			return manifest
		}
		out := append([]byte{}, manifest[:end[0]]...)
		out = append(out, []byte("    <application "+attr+" />\n")...)
		return append(out, manifest[end[0]:]...)
	}

	// Only the opening tag of the application element is rewritten.
	tagEnd := bytes.IndexByte(manifest[loc[1]:], '>')
	if tagEnd < 0 {
		return manifest
	}
	tagEnd += loc[1]
	if manifest[tagEnd-1] == '/' {
		tagEnd--
	}

	tag := manifest[loc[0]:tagEnd]
	var rewritten []byte
	if extractAttribute.Match(tag) {
		rewritten = extractAttribute.ReplaceAll(tag, []byte(attr))
	} else {
		rewritten = append(append(append([]byte{}, manifest[loc[0]:loc[1]]...), ' '), []byte(attr)...)
		rewritten = append(rewritten, tag[loc[1]-loc[0]:]...)
	}

	out := append([]byte{}, manifest[:loc[0]]...)
	out = append(out, rewritten...)
	return append(out, manifest[tagEnd:]...)
}

func resourcesOf(spec domain.PackageSpec) string {
	if spec.ShellDir == "" {
		return ""
	}
	res := filepath.Join(spec.ShellDir, resourceDir)
	if info, err := os.Stat(res); err == nil && info.IsDir() {
		return res
	}
	return ""
}

// linkedPayload reports whether a payload entry is consumed by the linker instead
// of being copied.
func linkedPayload(rel string) bool {
	return rel == ManifestEntry || rel == resourceDir || strings.HasPrefix(rel, resourceDir+"/")
}
