package dataset

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type imageHeader struct {
	Magic uint32
	Count uint32
	Rows  uint32
	Cols  uint32
}

type labelHeader struct {
	Magic uint32
	Count uint32
}

// ReadImages reads an IDX image stream (magic 2051, big-endian header followed
// by row-major pixel bytes). Images must be 28x28. limit > 0 stops after that
// many images.
func ReadImages(r io.Reader, limit int) ([][]byte, error) {
	var h imageHeader
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("reading image header: %w", err)
	}
	if h.Magic != ImageMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadMagic, h.Magic, ImageMagic)
	}
	if h.Rows != ImageHeight || h.Cols != ImageWidth {
		return nil, fmt.Errorf("%w: %dx%d, want %dx%d", ErrBadDimensions, h.Rows, h.Cols, ImageHeight, ImageWidth)
	}

	count := int(h.Count)
	if limit > 0 && limit < count {
		count = limit
	}
	var images [][]byte
	for i := 0; i < count; i++ {
		img := make([]byte, ImageSize)
		if _, err := io.ReadFull(r, img); err != nil {
			return nil, fmt.Errorf("reading image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// ReadLabels reads an IDX label stream (magic 2049). Every label must be a
// digit 0-9. limit > 0 stops after that many labels.
func ReadLabels(r io.Reader, limit int) ([]byte, error) {
	var h labelHeader
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("reading label header: %w", err)
	}
	if h.Magic != LabelMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadMagic, h.Magic, LabelMagic)
	}

	count := int(h.Count)
	if limit > 0 && limit < count {
		count = limit
	}
	var buf bytes.Buffer
	if n, err := io.CopyN(&buf, r, int64(count)); err != nil {
		return nil, fmt.Errorf("reading labels: got %d of %d: %w", n, count, err)
	}
	labels := buf.Bytes()
	for i, l := range labels {
		if int(l) >= NumClasses {
			return nil, fmt.Errorf("%w: label %d is %d", ErrBadLabel, i, l)
		}
	}
	return labels, nil
}

// FromRaw pairs decoded images and labels into normalized samples.
func FromRaw(images [][]byte, labels []byte) (Samples, error) {
	if len(images) != len(labels) {
		return nil, fmt.Errorf("%w: %d images, %d labels", ErrCountMismatch, len(images), len(labels))
	}
	samples := make(Samples, len(images))
	for i := range images {
		target, err := OneHot(labels[i])
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		samples[i] = Sample{Input: NormalizeBytes(images[i]), Target: target}
	}
	return samples, nil
}

// Load reads the MNIST training set (train = true) or test set from dir.
// Both the dashed (train-images-idx3-ubyte) and dotted (train-images.idx3-ubyte)
// file names are accepted, optionally gzip-compressed. limit > 0 caps the
// number of samples.
func Load(dir string, train bool, limit int) (Samples, error) {
	prefix := "t10k"
	if train {
		prefix = "train"
	}

	imgFile, err := openIDX(dir, prefix+"-images", "idx3-ubyte")
	if err != nil {
		return nil, err
	}
	defer imgFile.Close()
	images, err := ReadImages(imgFile, limit)
	if err != nil {
		return nil, fmt.Errorf("%s images: %w", prefix, err)
	}

	lblFile, err := openIDX(dir, prefix+"-labels", "idx1-ubyte")
	if err != nil {
		return nil, err
	}
	defer lblFile.Close()
	labels, err := ReadLabels(lblFile, limit)
	if err != nil {
		return nil, fmt.Errorf("%s labels: %w", prefix, err)
	}

	return FromRaw(images, labels)
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	zerr := g.Reader.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

func openIDX(dir, stem, kind string) (io.ReadCloser, error) {
	for _, name := range []string{stem + "-" + kind, stem + "." + kind} {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		f, err = os.Open(path + ".gz")
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening %s.gz: %w", path, err)
		}
		return gzipFile{Reader: zr, f: f}, nil
	}
	return nil, fmt.Errorf("no %s file in %s: %w", stem, dir, fs.ErrNotExist)
}
