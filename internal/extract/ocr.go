package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var ErrEngineUnavailable = errors.New("ocr engine not available")

// OCREngine recognizes text in an RGB bitmap.
type OCREngine interface {
	Recognize(ctx context.Context, img *image.RGBA) (string, error)
}

// TesseractEngine shells out to the tesseract CLI, feeding a PNG on stdin.
type TesseractEngine struct {
	bin       string
	languages string
	timeout   time.Duration
}

var tesseractCandidates = []string{
	"/usr/bin/tesseract",
	"/usr/local/bin/tesseract",
	"/opt/homebrew/bin/tesseract",
}

// NewTesseractEngine resolves the binary from path, PATH, then common install
// locations. A missing binary is not an error here; Recognize reports it.
func NewTesseractEngine(path, languages string, timeout time.Duration) *TesseractEngine {
	if languages == "" {
		languages = "eng+hin"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TesseractEngine{bin: detectTesseract(path), languages: languages, timeout: timeout}
}

func detectTesseract(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		log.Warn().Str("path", configured).Msg("configured tesseract binary not found")
	}
	if p, err := exec.LookPath("tesseract"); err == nil {
		return p
	}
	for _, c := range tesseractCandidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	log.Warn().Msg("tesseract not found, image text extraction disabled")
	return ""
}

func (t *TesseractEngine) Available() bool {
	return t.bin != ""
}

func (t *TesseractEngine) Recognize(ctx context.Context, img *image.RGBA) (string, error) {
	if t.bin == "" {
		return "", ErrEngineUnavailable
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode ocr input failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.bin, "stdin", "stdout", "-l", t.languages)
	cmd.Stdin = &buf
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("tesseract timed out after %s", t.timeout)
		}
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

type DocumentAIConfig struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
	// Languages uses the tesseract form ("eng+hin") and is sent as BCP-47
	// hints.
	Languages string
	Timeout   time.Duration
}

var tesseractToBCP47 = map[string]string{
	"eng": "en",
	"hin": "hi",
	"mar": "mr",
	"ben": "bn",
	"tam": "ta",
	"tel": "te",
	"guj": "gu",
	"urd": "ur",
}

// languageHints converts a tesseract language list into Document AI hints.
// Unknown codes are dropped; an empty result falls back to English and Hindi.
func languageHints(languages string) []string {
	var hints []string
	for _, code := range strings.Split(languages, "+") {
		if hint, ok := tesseractToBCP47[strings.TrimSpace(code)]; ok {
			hints = append(hints, hint)
		}
	}
	if len(hints) == 0 {
		return []string{"en", "hi"}
	}
	return hints
}

// DocumentAIEngine sends the bitmap to a Google Document AI OCR processor.
type DocumentAIEngine struct {
	cfg DocumentAIConfig
}

func NewDocumentAIEngine(cfg DocumentAIConfig) (*DocumentAIEngine, error) {
	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("document ai project and processor are required")
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &DocumentAIEngine{cfg: cfg}, nil
}

func (d *DocumentAIEngine) Recognize(ctx context.Context, img *image.RGBA) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode ocr input failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", d.cfg.Location)),
	}
	if d.cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(d.cfg.CredentialsFile))
	}
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("create document ai client failed: %w", err)
	}
	defer client.Close()

	resp, err := client.ProcessDocument(ctx, d.processRequest(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("document ai process failed: %w", err)
	}
	if resp.GetDocument() == nil {
		return "", nil
	}
	return resp.GetDocument().GetText(), nil
}

func (d *DocumentAIEngine) processRequest(content []byte) *documentaipb.ProcessRequest {
	return &documentaipb.ProcessRequest{
		Name: fmt.Sprintf("projects/%s/locations/%s/processors/%s", d.cfg.ProjectID, d.cfg.Location, d.cfg.ProcessorID),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: "image/png",
			},
		},
		ProcessOptions: &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				Hints: &documentaipb.OcrConfig_Hints{LanguageHints: languageHints(d.cfg.Languages)},
			},
		},
		SkipHumanReview: true,
	}
}
