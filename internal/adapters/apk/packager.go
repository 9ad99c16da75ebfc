// Package apk assembles installable packages: the SDK linker compiles the manifest
// and resources, and the native libraries are added as aligned, stored zip entries.
package apk

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"encoding/binary"
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"go.trai.ch/apkship/internal/adapters/sdk"
	"go.trai.ch/apkship/internal/core/domain"
	"go.trai.ch/apkship/internal/core/ports"
	"go.trai.ch/zerr"
)

// alignmentExtraID is the extra field id zipalign pads local headers with.
const alignmentExtraID = 0xD935

// localHeaderLen is the fixed size of a zip local file header.
const localHeaderLen = 30

// Packager implements ports.Packager.
type Packager struct {
	executor ports.Executor
	sdk      *sdk.Locator
}

var _ ports.Packager = (*Packager)(nil)

// NewPackager creates a new Packager running the SDK tools through executor.
func NewPackager(executor ports.Executor, env ports.Environment, logger ports.Logger) *Packager {
	return &Packager{executor: executor, sdk: sdk.NewLocator(env, logger)}
}

// Assemble writes the package for spec. Native libraries are always stored
// uncompressed and aligned to spec.Policy.NativeAlignment so the loader can map
// them directly; CompressResources only affects the other entries.
func (p *Packager) Assemble(ctx context.Context, spec domain.PackageSpec) (*domain.PackageArtifact, error) {
	if spec.Layout == nil {
		return nil, zerr.Wrap(domain.ErrVariantBuild, "no staged layout")
	}
	if err := os.MkdirAll(filepath.Dir(spec.OutputPath), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", spec.OutputPath)
	}

	work, err := os.MkdirTemp(filepath.Dir(spec.OutputPath), ".link-*")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create link directory"), "path", spec.OutputPath)
	}
	defer func() { _ = os.RemoveAll(work) }()

	base, err := p.link(ctx, spec, work)
	if err != nil {
		return nil, zerr.With(err, "variant", string(spec.Variant.Kind))
	}

	tmp, err := os.CreateTemp(filepath.Dir(spec.OutputPath), ".apk-*")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create package"), "path", spec.OutputPath)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := p.write(ctx, tmp, spec, base); err != nil {
		_ = tmp.Close()
		return nil, zerr.With(err, "path", spec.OutputPath)
	}
	if err := tmp.Close(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to close package"), "path", spec.OutputPath)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return nil, zerr.Wrap(err, "failed to set package permissions")
	}
	if err := os.Rename(tmpName, spec.OutputPath); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to move package into place"), "path", spec.OutputPath)
	}

	return &domain.PackageArtifact{
		Variant: spec.Variant,
		Path:    spec.OutputPath,
		Policy:  spec.Policy,
	}, nil
}

func (p *Packager) write(ctx context.Context, w io.Writer, spec domain.PackageSpec, base string) error {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	a := &archive{zw: zw, cw: cw, policy: spec.Policy, seen: make(map[string]bool)}

	if err := a.addLinked(base); err != nil {
		return err
	}

	if spec.ShellDir != "" {
		if err := a.addTree(ctx, spec.ShellDir); err != nil {
			return err
		}
	}

	for _, lib := range nativeEntries(spec.Layout) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.addNative(lib.name, lib.src); err != nil {
			return zerr.With(err, "architecture", lib.arch)
		}
	}

	if err := zw.Close(); err != nil {
		return zerr.Wrap(err, "failed to finish package")
	}
	return nil
}

type nativeEntry struct {
	arch string
	name string
	src  string
}

func nativeEntries(layout *domain.StagedLayout) []nativeEntry {
	entries := make([]nativeEntry, 0, len(layout.Entries))
	for arch, e := range layout.Entries {
		entries = append(entries, nativeEntry{
			arch: arch.String(),
			name: path.Join("lib", e.Target.ABI, layout.Library),
			src:  e.Path,
		})
	}
	slices.SortFunc(entries, func(a, b nativeEntry) int {
		if a.name < b.name {
			return -1
		}
		if a.name > b.name {
			return 1
		}
		return 0
	})
	return entries
}

type archive struct {
	zw     *zip.Writer
	cw     *countingWriter
	policy domain.PackagingPolicy
	seen   map[string]bool
}

func (a *archive) claim(name string) error {
	if a.seen[name] {
		return zerr.With(zerr.Wrap(domain.ErrVariantBuild, "duplicate package entry"), "entry", name)
	}
	a.seen[name] = true
	return nil
}

// addBytes writes data as a raw entry so no data descriptor follows it and the
// archive offset stays known to the next native entry.
func (a *archive) addBytes(name string, data []byte) error {
	if err := a.claim(name); err != nil {
		return err
	}

	fh := &zip.FileHeader{
		Name:               name,
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(data),
		UncompressedSize64: uint64(len(data)),
	}
	payload := data
	if a.policy.CompressResources {
		var buf bytes.Buffer
		fw, err := flate.NewWriter(&buf, flate.BestCompression)
		if err != nil {
			return zerr.Wrap(err, "failed to create compressor")
		}
		if _, err := fw.Write(data); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to compress entry"), "entry", name)
		}
		if err := fw.Close(); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to compress entry"), "entry", name)
		}
		fh.Method = zip.Deflate
		payload = buf.Bytes()
	}
	fh.CompressedSize64 = uint64(len(payload))
	fh.SetMode(domain.FilePerm)

	w, err := a.zw.CreateRaw(fh)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to add entry"), "entry", name)
	}
	if _, err := w.Write(payload); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write entry"), "entry", name)
	}
	return nil
}

// addLinked copies the entries of the linked base package, manifest first. The
// resource table is stored uncompressed on a 4 byte boundary.
func (a *archive) addLinked(base string) error {
	r, err := zip.OpenReader(base)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open linked package"), "path", base)
	}
	defer func() { _ = r.Close() }()

	files := slices.Clone(r.File)
	slices.SortStableFunc(files, func(x, y *zip.File) int {
		switch {
		case x.Name == ManifestEntry:
			return -1
		case y.Name == ManifestEntry:
			return 1
		}
		return 0
	})
	if len(files) == 0 || files[0].Name != ManifestEntry {
		return zerr.With(zerr.Wrap(domain.ErrVariantBuild, "linked package has no manifest"), "path", base)
	}

	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return err
		}
		if f.Name == ResourcesEntry {
			err = a.addStored(f.Name, bytes.NewReader(data), int64(len(data)), crc32.ChecksumIEEE(data),
				resourcesAlignment, domain.FilePerm)
		} else {
			err = a.addBytes(f.Name, data)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open linked entry"), "entry", f.Name)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read linked entry"), "entry", f.Name)
	}
	return data, nil
}

func (a *archive) addTree(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read application payload"), "path", p)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return zerr.Wrap(err, "failed to resolve payload entry")
		}
		rel = filepath.ToSlash(rel)
		if linkedPayload(rel) {
			return nil
		}
		data, err := os.ReadFile(p) // #nosec G304 -- p is below the configured shell dir
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read payload entry"), "path", p)
		}
		return a.addBytes(rel, data)
	})
}

// addNative stores src uncompressed with its data aligned to the policy alignment.
func (a *archive) addNative(name, src string) error {
	f, err := os.Open(src) // #nosec G304 -- src is a staged library
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open native library"), "path", src)
	}
	defer func() { _ = f.Close() }()

	crc := crc32.NewIEEE()
	size, err := io.Copy(crc, f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read native library"), "path", src)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to rewind native library"), "path", src)
	}
	return a.addStored(name, f, size, crc.Sum32(), a.policy.NativeAlignment, domain.LibraryPerm)
}

// addStored writes an uncompressed entry whose data starts on a multiple of align.
func (a *archive) addStored(name string, r io.Reader, size int64, crc uint32, align int, mode fs.FileMode) error {
	if err := a.claim(name); err != nil {
		return err
	}
	if err := a.zw.Flush(); err != nil {
		return zerr.Wrap(err, "failed to flush package")
	}
	fh := &zip.FileHeader{
		Name:               name,
		Method:             zip.Store,
		CRC32:              crc,
		CompressedSize64:   uint64(size), //nolint:gosec // sizes are never negative
		UncompressedSize64: uint64(size), //nolint:gosec // sizes are never negative
		Extra:              alignmentExtra(a.cw.n+localHeaderLen+int64(len(name)), align),
	}
	fh.SetMode(mode)

	w, err := a.zw.CreateRaw(fh)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to add entry"), "entry", name)
	}
	if _, err := io.Copy(w, r); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write entry"), "entry", name)
	}
	return nil
}

// alignmentExtra returns an extra field that moves the entry data, which would
// otherwise start at offset, to the next multiple of align.
func alignmentExtra(offset int64, align int) []byte {
	if align <= 0 {
		align = domain.NativeAlignment
	}
	const fieldHeader = 6
	pad := (int64(align) - (offset+fieldHeader)%int64(align)) % int64(align)

	extra := make([]byte, fieldHeader+pad)
	binary.LittleEndian.PutUint16(extra[0:], alignmentExtraID)
	binary.LittleEndian.PutUint16(extra[2:], uint16(2+pad)) //nolint:gosec // pad < align
	binary.LittleEndian.PutUint16(extra[4:], uint16(align)) //nolint:gosec // align is a page size
	return extra
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
