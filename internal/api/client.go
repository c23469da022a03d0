// Package api is the desktop client for the sentix HTTP server.
// Every user action is a single attempt; failures come back as errors for
// the view to show inline.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"strings"

	"sentix/internal/config"
	internalhttp "sentix/internal/http"
	"sentix/internal/logger"
	"sentix/internal/vocab"
	"sentix/models"
)

// ErrMalformed means the server answered 2xx with a body missing the expected field.
var ErrMalformed = errors.New("malformed response")

// StatusError is a non-2xx answer. Message comes from the {error} body when present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

// IsStatus reports whether err is a StatusError with code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client talks to one server. Cookies from Login are kept for later calls.
type Client struct {
	baseURL  string
	http     *http.Client
	transfer *http.Client
	log      *logger.Logger
}

// New creates a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)

	apiClient := *internalhttp.APIClient
	apiClient.Jar = jar
	transfer := *internalhttp.TransferClient
	transfer.Jar = jar

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &apiClient,
		transfer: &transfer,
		log:      logger.Named("api"),
	}
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL turns a server-relative path such as /uploads/x.mp4 into an absolute URL.
func (c *Client) ResolveURL(p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return c.baseURL + "/" + strings.TrimLeft(p, "/")
}

// Explain implements explain.Explainer against POST /api/explain.
func (c *Client) Explain(ctx context.Context, text string) (string, error) {
	var resp struct {
		Meaning string `json:"meaning"`
	}
	if err := c.postJSON(ctx, "/api/explain", map[string]string{"text": text}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Meaning) == "" {
		return "", fmt.Errorf("explain: %w", ErrMalformed)
	}
	return resp.Meaning, nil
}

// Chat sends one practice message and returns the reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.postJSON(ctx, "/api/chat", map[string]string{"message": message}, &resp); err != nil {
		return "", err
	}
	if resp.Reply == "" {
		return "", fmt.Errorf("chat: %w", ErrMalformed)
	}
	return resp.Reply, nil
}

// GenerateSubtitles asks the server to transcribe a stored or remote video.
// The server may name the document srt, srtContent or srtText.
func (c *Client) GenerateSubtitles(ctx context.Context, storagePath, downloadURL string) (string, error) {
	body := map[string]string{}
	if storagePath != "" {
		body["storagePath"] = storagePath
	} else {
		body["downloadURL"] = downloadURL
	}

	var resp struct {
		SRT        string `json:"srt"`
		SRTContent string `json:"srtContent"`
		SRTText    string `json:"srtText"`
	}
	if err := c.postJSON(ctx, "/api/generate-subtitles", body, &resp); err != nil {
		return "", err
	}
	for _, s := range []string{resp.SRT, resp.SRTContent, resp.SRTText} {
		if s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("generate subtitles: %w", ErrMalformed)
}

// QueueSubtitles asks for asynchronous generation and returns the job to poll.
func (c *Client) QueueSubtitles(ctx context.Context, storagePath, downloadURL string) (*models.GenerationJob, error) {
	body := map[string]any{"async": true, "storagePath": storagePath, "downloadURL": downloadURL}
	var job models.GenerationJob
	if err := c.postJSON(ctx, "/api/generate-subtitles", body, &job); err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, fmt.Errorf("queue subtitles: %w", ErrMalformed)
	}
	return &job, nil
}

// Job fetches the state of a queued generation.
func (c *Client) Job(ctx context.Context, id string) (*models.GenerationJob, error) {
	var job models.GenerationJob
	if err := c.do(ctx, c.http, http.MethodGet, "/api/jobs/"+id, nil, "", &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UploadResult describes a stored video.
type UploadResult struct {
	Filename    string `json:"filename"`
	StoragePath string `json:"storagePath"`
	DownloadURL string `json:"downloadURL"`
	Size        int64  `json:"size"`
}

// Upload sends a local video file. onProgress receives bytes sent and total size.
func (c *Client) Upload(ctx context.Context, path string, onProgress func(sent, total int64)) (UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return UploadResult{}, fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return UploadResult{}, fmt.Errorf("stat video: %w", err)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("video", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, &progressReader{r: f, total: info.Size(), onProgress: onProgress})
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	ctx, cancel := context.WithTimeout(ctx, config.UploadTimeout)
	defer cancel()

	var result UploadResult
	if err := c.do(ctx, c.transfer, http.MethodPost, "/api/upload", pr, form.FormDataContentType(), &result); err != nil {
		pr.CloseWithError(err)
		return UploadResult{}, err
	}
	result.DownloadURL = c.ResolveURL(result.DownloadURL)
	return result, nil
}

// UploadFromURL asks the server to fetch a remote video into its uploads.
func (c *Client) UploadFromURL(ctx context.Context, rawURL string) (UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DownloadTimeout)
	defer cancel()

	var result UploadResult
	data, _ := json.Marshal(map[string]string{"url": rawURL})
	if err := c.do(ctx, c.transfer, http.MethodPost, "/api/upload/from-url", bytes.NewReader(data), "application/json", &result); err != nil {
		return UploadResult{}, err
	}
	result.DownloadURL = c.ResolveURL(result.DownloadURL)
	return result, nil
}

// Uploads lists stored videos.
func (c *Client) Uploads(ctx context.Context) ([]UploadResult, error) {
	var list []UploadResult
	if err := c.do(ctx, c.http, http.MethodGet, "/api/uploads", nil, "", &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i].DownloadURL = c.ResolveURL(list[i].DownloadURL)
	}
	return list, nil
}

// DeleteUpload removes a stored video.
func (c *Client) DeleteUpload(ctx context.Context, filename string) error {
	return c.do(ctx, c.http, http.MethodDelete, "/api/uploads/"+filename, nil, "", nil)
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, username, password, displayName string) error {
	body := map[string]string{"username": username, "password": password, "displayName": displayName}
	return c.postJSON(ctx, "/api/register", body, nil)
}

// Login signs in; the session cookie is kept by the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.postJSON(ctx, "/api/login", map[string]string{"username": username, "password": password}, nil)
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/api/logout", struct{}{}, nil)
}

// Account is the signed-in user.
type Account struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// Me returns the signed-in account, or a 401 StatusError.
func (c *Client) Me(ctx context.Context) (Account, error) {
	var acc Account
	err := c.do(ctx, c.http, http.MethodGet, "/api/me", nil, "", &acc)
	return acc, err
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, c.http, http.MethodGet, "/api/health", nil, "", nil)
}

// Vocab lists the signed-in user's entries.
func (c *Client) Vocab(ctx context.Context) ([]vocab.Entry, error) {
	var docs []map[string]any
	if err := c.do(ctx, c.http, http.MethodGet, "/api/vocab", nil, "", &docs); err != nil {
		return nil, err
	}
	entries := make([]vocab.Entry, 0, len(docs))
	for _, doc := range docs {
		id, _ := doc["id"].(string)
		entries = append(entries, vocab.Normalize(id, doc))
	}
	return entries, nil
}

// AddVocab saves an entry for the signed-in user.
func (c *Client) AddVocab(ctx context.Context, e vocab.Entry) (vocab.Entry, error) {
	var doc map[string]any
	if err := c.postJSON(ctx, "/api/vocab", e.Document(), &doc); err != nil {
		return vocab.Entry{}, err
	}
	id, _ := doc["id"].(string)
	return vocab.Normalize(id, doc), nil
}

// DeleteVocab removes an entry.
func (c *Client) DeleteVocab(ctx context.Context, id string) error {
	return c.do(ctx, c.http, http.MethodDelete, "/api/vocab/"+id, nil, "", nil)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, c.http, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxJSONBody*16))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		c.log.Debug("%s %s → %d %s", method, path, resp.StatusCode, errResp.Error)
		return &StatusError{Code: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformed, err)
	}
	return nil
}

// progressReader reports how much of the file has been read.
type progressReader struct {
	r          io.Reader
	sent       int64
	total      int64
	onProgress func(sent, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.sent, p.total)
		}
	}
	return n, err
}
