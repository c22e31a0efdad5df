package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/ironsheep/image-filter-mcp/internal/filter"
)

// createInMemoryImage creates a solid RGBA image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createTestImage creates a simple test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := createInMemoryImage(width, height, c)

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

func encodeBase64(t *testing.T, encode func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecode_Formats(t *testing.T) {
	img := createInMemoryImage(8, 6, color.RGBA{200, 100, 50, 255})

	tests := []struct {
		name       string
		encode     func(*bytes.Buffer) error
		wantFormat string
	}{
		{"png", func(b *bytes.Buffer) error { return png.Encode(b, img) }, "png"},
		{"jpeg", func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) }, "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			decoded, format, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if format != tt.wantFormat {
				t.Errorf("format: got %s, want %s", format, tt.wantFormat)
			}
			if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 6 {
				t.Errorf("dimensions: got %v, want 8x6", decoded.Bounds())
			}
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{1, 2, 3, 255})

	var gifBuf bytes.Buffer
	if err := gif.Encode(&gifBuf, img, nil); err != nil {
		t.Fatalf("gif encode failed: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not an image")},
		{"truncated png", func() []byte {
			var buf bytes.Buffer
			png.Encode(&buf, img)
			return buf.Bytes()[:20]
		}()},
		{"gif", gifBuf.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, filter.ErrInvalidImage) {
				t.Errorf("error: got %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestDecodeBase64(t *testing.T) {
	raw := encodeBase64(t, func(b *bytes.Buffer) error {
		return png.Encode(b, createInMemoryImage(5, 3, color.White))
	})

	for _, in := range []string{raw, "data:image/png;base64," + raw, "  " + raw + "\n"} {
		img, format, err := DecodeBase64(in)
		if err != nil {
			t.Fatalf("DecodeBase64 failed: %v", err)
		}
		if format != "png" || img.Bounds().Dx() != 5 || img.Bounds().Dy() != 3 {
			t.Errorf("got %s %v, want png 5x3", format, img.Bounds())
		}
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	for _, in := range []string{"!!!not-base64!!!", "data:image/png;base64", base64.StdEncoding.EncodeToString([]byte("hello"))} {
		if _, _, err := DecodeBase64(in); !errors.Is(err, filter.ErrInvalidImage) {
			t.Errorf("DecodeBase64(%q): got %v, want ErrInvalidImage", in, err)
		}
	}
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImage(t, 100, 50, color.RGBA{255, 0, 0, 255})
	defer os.Remove(path)

	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// A second load is served from the cache even after the file is gone.
	os.Remove(path)
	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if img2 != img {
		t.Error("expected cached image to be returned")
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/path/image.png"); err == nil {
		t.Error("expected error for nonexistent file")
	} else if errors.Is(err, filter.ErrInvalidImage) {
		t.Error("missing file should not be reported as an invalid image")
	}

	tmp, err := os.CreateTemp("", "not-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmp.WriteString("this is not an image")
	tmp.Close()
	defer os.Remove(tmp.Name())

	if _, err := cache.Load(tmp.Name()); !errors.Is(err, filter.ErrInvalidImage) {
		t.Errorf("error: got %v, want ErrInvalidImage", err)
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads must not be cached, got %d entries", cache.Len())
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	path1 := createTestImage(t, 10, 10, color.White)
	defer os.Remove(path1)
	path2 := createTestImage(t, 20, 20, color.Black)
	defer os.Remove(path2)

	cache := NewImageCache()
	cache.Load(path1)
	cache.Load(path2)
	if cache.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", cache.Len())
	}

	cache.Evict(path1)
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d entries, want 1", cache.Len())
	}
	cache.Evict("/never/loaded.png")

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d entries, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})
	defer os.Remove(path)

	cache := NewImageCache()
	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 120, 80, color.RGBA{10, 20, 30, 255})
	defer os.Remove(path)

	info, err := LoadImageInfo(NewImageCache(), path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 120 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 120x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.Channels != 3 {
		t.Errorf("channels: got %d, want 3", info.Channels)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file size: got %d, want > 0", info.FileSizeBytes)
	}
}

func TestLoadImageInfo_FormatFromContent(t *testing.T) {
	// A JPEG saved with a .png extension is still reported as jpeg.
	tmp, err := os.CreateTemp("", "misnamed-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	jpeg.Encode(tmp, createInMemoryImage(16, 16, color.White), nil)
	tmp.Close()
	defer os.Remove(tmp.Name())

	info, err := LoadImageInfo(NewImageCache(), tmp.Name())
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Format != "jpeg" {
		t.Errorf("format: got %s, want jpeg", info.Format)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		img      image.Image
		channels int
		depth    string
		hasAlpha bool
	}{
		{"gray", image.NewGray(image.Rect(0, 0, 2, 2)), 1, "8-bit", false},
		{"gray16", image.NewGray16(image.Rect(0, 0, 2, 2)), 1, "16-bit", false},
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 2, 2)), 3, "8-bit", true},
		{"nrgba64", image.NewNRGBA64(image.Rect(0, 0, 2, 2)), 3, "16-bit", true},
		{"ycbcr", image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio444), 3, "8-bit", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Describe(tt.img, "png")
			if info.Channels != tt.channels || info.ColorDepth != tt.depth || info.HasAlpha != tt.hasAlpha {
				t.Errorf("got channels=%d depth=%s alpha=%v, want %d %s %v",
					info.Channels, info.ColorDepth, info.HasAlpha, tt.channels, tt.depth, tt.hasAlpha)
			}
		})
	}
}

func TestGetDimensions(t *testing.T) {
	full := createInMemoryImage(40, 30, color.White)
	sub := full.SubImage(image.Rect(10, 10, 25, 20))

	dims := GetDimensions(sub)
	if dims.Width != 15 || dims.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 15x10", dims.Width, dims.Height)
	}
}

func TestDecode_ErrorMentionsFormat(t *testing.T) {
	var buf bytes.Buffer
	gif.Encode(&buf, createInMemoryImage(2, 2, color.White), nil)

	_, _, err := Decode(&buf)
	if err == nil || !strings.Contains(err.Error(), "gif") {
		t.Errorf("error should name the rejected format, got %v", err)
	}
}

// pngHeader returns the PNG signature and an IHDR chunk declaring the given
// size, with no pixel data.
func pngHeader(width, height uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolor

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecode_HugeDimensions(t *testing.T) {
	_, _, err := Decode(bytes.NewReader(pngHeader(100000, 100000)))
	if !errors.Is(err, filter.ErrInvalidImage) {
		t.Fatalf("error: got %v, want ErrInvalidImage", err)
	}
	if !strings.Contains(err.Error(), "pixel limit") {
		t.Errorf("error should name the pixel limit: %v", err)
	}
}

func TestDecode_PixelLimit(t *testing.T) {
	saved := maxDecodePixels
	maxDecodePixels = 15
	defer func() { maxDecodePixels = saved }()

	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"under limit", 3, 4, false},
		{"at limit", 3, 5, false},
		{"over limit", 4, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := png.Encode(&buf, createInMemoryImage(tt.width, tt.height, color.White)); err != nil {
				t.Fatalf("png encode failed: %v", err)
			}

			img, _, err := Decode(&buf)
			if tt.wantErr {
				if !errors.Is(err, filter.ErrInvalidImage) {
					t.Errorf("error: got %v, want ErrInvalidImage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if img.Bounds().Dx() != tt.width || img.Bounds().Dy() != tt.height {
				t.Errorf("bounds: got %v", img.Bounds())
			}
		})
	}
}
