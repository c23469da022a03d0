package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sentix/internal/config"
	"sentix/internal/logger"
	"sentix/services"
)

const uploadFormField = "video"

const notVideoMessage = "Only video files (mp4, mov, avi, mkv, webm) are allowed"

// uploadResult describes a stored video. StoragePath and DownloadURL are the
// same server-relative path; clients resolve the URL against the server.
type uploadResult struct {
	Filename    string `json:"filename"`
	StoragePath string `json:"storagePath"`
	DownloadURL string `json:"downloadURL"`
	Size        int64  `json:"size"`
}

func storedResult(name string, size int64) uploadResult {
	p := "/uploads/" + name
	return uploadResult{Filename: name, StoragePath: p, DownloadURL: p, Size: size}
}

type UploadHandler struct {
	dir        string
	downloader *services.Downloader
	log        *logger.Logger
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{
		dir:        dir,
		downloader: services.NewDownloader(dir),
		log:        logger.Named("uploads"),
	}
}

// Upload stores the multipart "video" part under a unique name.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Expected multipart form data")
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			writeError(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		if err != nil {
			h.writeUploadError(w, err)
			return
		}
		if part.FormName() != uploadFormField || part.FileName() == "" {
			part.Close()
			continue
		}

		if !services.IsVideoFile(part.FileName()) {
			part.Close()
			writeError(w, http.StatusBadRequest, notVideoMessage)
			return
		}

		name := services.UniqueFileName(filepath.Ext(part.FileName()))
		size, err := h.save(name, part)
		part.Close()
		if err != nil {
			h.writeUploadError(w, err)
			return
		}

		h.log.Info("📥 Uploaded %s as %s (%d bytes)", part.FileName(), name, size)
		writeJSON(w, http.StatusCreated, storedResult(name, size))
		return
	}
}

// FromURL downloads {url} into the upload directory.
func (h *UploadHandler) FromURL(w http.ResponseWriter, r *http.Request) {
	var in struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	in.URL = strings.TrimSpace(in.URL)
	if in.URL == "" {
		writeError(w, http.StatusBadRequest, `Missing or invalid "url" in request body`)
		return
	}
	if in.Filename != "" && !services.IsVideoFile(in.Filename) {
		writeError(w, http.StatusBadRequest, notVideoMessage)
		return
	}

	name, size, err := h.downloader.Download(r.Context(), in.URL, in.Filename)
	if err != nil {
		h.log.Warn("download %s: %v", in.URL, err)
		writeError(w, http.StatusBadGateway, "Failed to download video from URL")
		return
	}
	writeJSON(w, http.StatusCreated, storedResult(name, size))
}

// List returns stored videos, newest first.
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.dir)
	if err != nil && !os.IsNotExist(err) {
		writeError(w, http.StatusInternalServerError, "Failed to list videos")
		return
	}

	type listed struct {
		result uploadResult
		mod    int64
	}
	var videos []listed
	for _, e := range entries {
		if e.IsDir() || !services.IsVideoFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		videos = append(videos, listed{storedResult(e.Name(), info.Size()), info.ModTime().UnixNano()})
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].mod > videos[j].mod })

	out := make([]uploadResult, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.result)
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete removes a stored video.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	p := filepath.Join(h.dir, name)
	if _, err := os.Stat(p); err != nil {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	if err := os.Remove(p); err != nil {
		h.log.Error("delete %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete video")
		return
	}
	h.log.Info("🗑️ Deleted %s", name)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Video deleted successfully"})
}

// FileServer serves stored videos. Directory listings are not exposed.
func (h *UploadHandler) FileServer() http.Handler {
	files := http.FileServer(http.Dir(h.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (h *UploadHandler) save(name string, src io.Reader) (int64, error) {
	if err := os.MkdirAll(h.dir, 0755); err != nil {
		return 0, fmt.Errorf("create upload directory: %w", err)
	}
	dest := filepath.Join(h.dir, name)
	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}
	size, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(dest)
		if copyErr != nil {
			return 0, copyErr
		}
		return 0, closeErr
	}
	return size, nil
}

func (h *UploadHandler) writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large (max 2GB)")
		return
	}
	h.log.Error("upload failed: %v", err)
	writeError(w, http.StatusInternalServerError, "Video upload failed")
}
