package archive

import (
	"archive/zip"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
)

const (
	// DefaultUploadName is the file name the recipient sees.
	DefaultUploadName = "ml_datasets_bundle.zip"

	// DefaultMaxPartSize is the largest artifact delivered in one piece.
	DefaultMaxPartSize = 49 * 1024 * 1024

	archivePattern = "bundle-*" + archiveExt
	spoolPrefix    = "bundle-spool-"
	spoolPattern   = spoolPrefix + "*"
	partSuffix     = ".part"
)

// Builder creates archives from a Plan.
// A Builder holds no per-request state and is safe for concurrent use.
type Builder struct {
	// tempDir holds archives and spool files. Empty means os.TempDir().
	tempDir string

	// maxPartSize is the largest artifact passed to a DeliverFunc.
	maxPartSize int64

	// uploadName is the artifact name presented to the recipient.
	uploadName string

	// level is the deflate compression level.
	level int

	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithTempDir sets the directory for archives and spool files.
func WithTempDir(dir string) Option {
	return func(b *Builder) {
		b.tempDir = dir
	}
}

// WithMaxPartSize sets the split threshold. Non-positive values keep the default.
func WithMaxPartSize(n int64) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxPartSize = n
		}
	}
}

// WithUploadName sets the name presented to the recipient.
func WithUploadName(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.uploadName = name
		}
	}
}

// WithCompressionLevel sets the deflate level (flate.BestSpeed to flate.BestCompression).
func WithCompressionLevel(level int) Option {
	return func(b *Builder) {
		if level >= flate.HuffmanOnly && level <= flate.BestCompression {
			b.level = level
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		maxPartSize: DefaultMaxPartSize,
		uploadName:  DefaultUploadName,
		level:       flate.DefaultCompression,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = log.Discard()
	}

	return b
}

// Artifact is one file handed to a DeliverFunc.
type Artifact struct {
	// Path is the temporary file on disk. It is removed after delivery.
	Path string

	// Name is the upload name: the configured name, plus ".partN" for parts.
	Name string

	// Size is the file size in bytes.
	Size int64

	// Part is the 1-based part number, or 0 for an unsplit archive.
	Part int
}

// Summary describes what went into an archive.
type Summary struct {
	// Included lists the files written to the archive, in plan order.
	Included []string

	// Skipped lists the files that could not be read.
	Skipped []SkippedFile

	// ArchiveSize is the size of the complete archive in bytes.
	ArchiveSize int64

	// Artifacts are the files delivered, in delivery order.
	Artifacts []Artifact
}

// FileCount returns the number of files in the archive.
func (s *Summary) FileCount() int {
	if s == nil {
		return 0
	}
	return len(s.Included)
}

// Split reports whether the archive was delivered in parts.
func (s *Summary) Split() bool {
	return s != nil && len(s.Artifacts) > 1
}

// DeliverFunc sends the finished archive somewhere.
// The artifact files are removed after it returns.
type DeliverFunc func(ctx context.Context, summary *Summary) error

// Bundle archives the files of plan and passes the result to deliver.
//
// Files that cannot be opened or read are skipped and recorded in the
// summary; a skipped file never leaves a partial entry in the archive. If
// every file is skipped, Bundle returns ErrNothingToBundle without calling
// deliver. The archive and all parts are removed before Bundle returns.
func (b *Builder) Bundle(ctx context.Context, plan *Plan, deliver DeliverFunc) (*Summary, error) {
	if plan == nil || len(plan.Files) == 0 {
		return nil, ErrNothingToBundle
	}

	var created []string
	defer func() {
		b.remove(created)
	}()

	tmp, err := os.CreateTemp(b.tempDir, archivePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	created = append(created, tmp.Name())

	summary, err := b.write(ctx, tmp, plan)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close archive: %w", closeErr)
	}
	if err != nil {
		return summary, err
	}
	if len(summary.Included) == 0 {
		return summary, ErrNothingToBundle
	}

	info, err := os.Stat(tmp.Name())
	if err != nil {
		return summary, fmt.Errorf("failed to stat archive: %w", err)
	}
	summary.ArchiveSize = info.Size()

	artifacts, err := b.split(tmp.Name(), info.Size(), func(path string) {
		created = append(created, path)
	})
	if err != nil {
		return summary, err
	}
	summary.Artifacts = artifacts

	b.logger.InfoContext(ctx, "archive ready",
		"files", len(summary.Included),
		"skipped", len(summary.Skipped),
		"bytes", summary.ArchiveSize,
		"parts", len(artifacts),
	)

	if err := deliver(ctx, summary); err != nil {
		return summary, fmt.Errorf("failed to deliver archive: %w", err)
	}
	return summary, nil
}

// write fills the archive with the plan's files.
func (b *Builder) write(ctx context.Context, out io.Writer, plan *Plan) (*Summary, error) {
	summary := &Summary{
		Included: make([]string, 0, len(plan.Files)),
	}

	zw := zip.NewWriter(out)
	for _, name := range plan.Files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		entry, err := b.compress(filepath.Join(plan.Dir, name))
		if err != nil {
			b.logger.WarnContext(ctx, "skipping file", "file", name, "error", err)
			summary.Skipped = append(summary.Skipped, SkippedFile{Name: name, Err: err})
			continue
		}

		err = entry.writeTo(zw, name)
		entry.discard()
		if err != nil {
			return summary, fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
		summary.Included = append(summary.Included, name)
	}

	if err := zw.Close(); err != nil {
		return summary, fmt.Errorf("failed to finish archive: %w", err)
	}
	return summary, nil
}

// spooled is a deflate-compressed copy of one source file.
type spooled struct {
	file             *os.File
	crc              uint32
	compressedSize   uint64
	uncompressedSize uint64
	modified         fs.FileInfo
}

// compress deflates the file at path into a private spool file. Any read
// failure discards the spool, so the archive is untouched.
func (b *Builder) compress(path string) (_ *spooled, err error) {
	src, err := os.Open(path) //nolint:gosec // path is built from the staging directory listing
	if err != nil {
		return nil, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return nil, err
	}

	spool, err := os.CreateTemp(b.tempDir, spoolPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	entry := &spooled{file: spool, modified: info}
	defer func() {
		if err != nil {
			entry.discard()
		}
	}()

	counter := &countingWriter{w: spool}
	fw, err := flate.NewWriter(counter, b.level)
	if err != nil {
		return nil, err
	}

	crc := crc32.NewIEEE()
	n, err := io.Copy(fw, io.TeeReader(src, crc))
	if err != nil {
		return nil, fmt.Errorf("read failed after %d bytes: %w", n, err)
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	entry.crc = crc.Sum32()
	entry.compressedSize = uint64(counter.n) //nolint:gosec // byte counts are never negative
	entry.uncompressedSize = uint64(n)       //nolint:gosec // byte counts are never negative
	return entry, nil
}

// writeTo copies the compressed bytes into zw as entry name.
func (s *spooled) writeTo(zw *zip.Writer, name string) error {
	header := &zip.FileHeader{
		Name:               name,
		Method:             zip.Deflate,
		CRC32:              s.crc,
		CompressedSize64:   s.compressedSize,
		UncompressedSize64: s.uncompressedSize,
		Modified:           s.modified.ModTime(),
	}
	header.SetMode(s.modified.Mode().Perm())

	w, err := zw.CreateRaw(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, s.file)
	return err
}

// discard closes and removes the spool file.
func (s *spooled) discard() {
	_ = s.file.Close()           //nolint:errcheck // spool is removed next
	_ = os.Remove(s.file.Name()) //nolint:errcheck // best effort for a private temp file
}

// split returns the archive as one artifact, or cuts it into maxPartSize
// chunks named <archive>.partN. track is called for every file created.
func (b *Builder) split(path string, size int64, track func(string)) ([]Artifact, error) {
	if size <= b.maxPartSize {
		return []Artifact{{Path: path, Name: b.uploadName, Size: size}}, nil
	}

	src, err := os.Open(path) //nolint:gosec // path was created by this builder
	if err != nil {
		return nil, fmt.Errorf("failed to open archive for splitting: %w", err)
	}
	defer src.Close()

	var artifacts []Artifact
	for part := 1; ; part++ {
		suffix := partSuffix + strconv.Itoa(part)
		partPath := path + suffix

		dst, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // derived from a unique temp name
		if err != nil {
			return nil, fmt.Errorf("failed to create part %d: %w", part, err)
		}
		track(partPath)

		n, copyErr := io.CopyN(dst, src, b.maxPartSize)
		closeErr := dst.Close()
		if copyErr != nil && !errors.Is(copyErr, io.EOF) {
			return nil, fmt.Errorf("failed to write part %d: %w", part, copyErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close part %d: %w", part, closeErr)
		}

		if n == 0 {
			// The previous part ended exactly at EOF.
			if err := os.Remove(partPath); err != nil {
				return nil, fmt.Errorf("failed to remove empty part: %w", err)
			}
			break
		}

		artifacts = append(artifacts, Artifact{
			Path: partPath,
			Name: b.uploadName + suffix,
			Size: n,
			Part: part,
		})

		if errors.Is(copyErr, io.EOF) {
			break
		}
	}

	b.logger.Debug("archive split", "bytes", size, "parts", len(artifacts), "part_size", b.maxPartSize)
	return artifacts, nil
}

// remove deletes every path created for a request.
func (b *Builder) remove(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			b.logger.Error("failed to remove temporary archive", "path", p, "error", err)
		}
	}
}

// countingWriter counts bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
