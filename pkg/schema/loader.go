package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS
	// HTTPClient enables SourceKindURL sources. When nil and AllowHTTP is
	// set, a default client is created.
	HTTPClient *http.Client
	// AllowHTTP opts into fetching schema documents over HTTP(S).
	AllowHTTP bool
	// RequestTimeout bounds HTTP fetches. Zero means no explicit timeout.
	RequestTimeout time.Duration
}

// Loader fetches schema documents from files, fs.FS entries, or URLs and
// decodes them into Forms. Documents may be YAML or JSON; labels and
// descriptions are sanitized before the form is returned.
type Loader struct {
	fsys    fs.FS
	http    *http.Client
	timeout time.Duration
}

// NewLoader constructs a Loader from pre-resolved options.
func NewLoader(options LoaderOptions) *Loader {
	httpClient := options.HTTPClient
	if httpClient == nil && options.AllowHTTP {
		httpClient = &http.Client{Timeout: options.RequestTimeout}
	}
	return &Loader{
		fsys:    options.FileSystem,
		http:    httpClient,
		timeout: options.RequestTimeout,
	}
}

// Load fetches the document behind src and decodes it into a validated Form.
func (l *Loader) Load(ctx context.Context, src Source) (Form, error) {
	doc, err := l.LoadDocument(ctx, src)
	if err != nil {
		return Form{}, err
	}
	return Parse(doc)
}

// LoadDocument fetches raw bytes without decoding, for callers that need the
// document itself (e.g. the OpenAPI importer).
func (l *Loader) LoadDocument(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fsys == nil {
			return Document{}, errors.New("schema loader: fs.FS is not configured")
		}
		data, err = fs.ReadFile(l.fsys, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return Document{}, errors.New("schema loader: http support disabled")
		}
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("schema loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema loader: read %s: %w", src.Location(), err)
	}

	return NewDocument(src, data)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Parse decodes a schema document into a Form, sanitizes display strings, and
// validates the result. JSON documents are detected by their leading brace;
// everything else goes through the YAML decoder (which also accepts JSON).
func Parse(doc Document) (Form, error) {
	raw := doc.Raw()

	var form Form
	if looksLikeJSON(raw) {
		if err := json.Unmarshal(raw, &form); err != nil {
			return Form{}, fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
		}
	} else {
		if err := yaml.Unmarshal(raw, &form); err != nil {
			return Form{}, fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
		}
	}

	form = Sanitize(form)
	if err := Validate(form); err != nil {
		return Form{}, err
	}
	return form, nil
}

func looksLikeJSON(raw []byte) bool {
	trimmed := strings.TrimLeft(string(raw), " \t\r\n")
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
