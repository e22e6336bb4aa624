package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pagesmith/pdfchunk/chunker"
	"github.com/pagesmith/pdfchunk/internal/docmeta"
	"github.com/pagesmith/pdfchunk/internal/extract"
	"github.com/pagesmith/pdfchunk/internal/ingest"
)

// chunkResponse is the envelope returned by POST /v1/chunk.
type chunkResponse struct {
	Chunks           []docmeta.Record `json:"chunks"`
	TotalPages       int              `json:"total_pages"`
	TotalChunks      int              `json:"total_chunks"`
	ProcessingTimeMS int64            `json:"processing_time_ms"`
}

// handleChunk accepts a multipart document upload, runs it through the
// chunking pipeline, and returns the chunk records.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	// Cap the request body slightly above the configured max so we can
	// distinguish "too large" from a read error.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file field is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" && !ingest.Supported(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %q", ext), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read upload", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds maximum size of %d bytes", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	pageLimit := 0
	if v := r.FormValue("page_limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "page_limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		pageLimit = n
	}

	// The extraction engine reads from disk, so stage the upload in a
	// temp file carrying the original extension.
	tmp, err := os.CreateTemp("", "pdfchunk-*"+ext)
	if err != nil {
		jsonError(w, "failed to stage upload", http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		jsonError(w, "failed to stage upload", http.StatusInternalServerError)
		return
	}
	tmp.Close()

	res, err := s.chunker.ChunkFile(tmpPath, pageLimit)
	if err != nil {
		s.log.Error("chunking failed", "filename", filename, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, extract.ErrCorrupt) {
			status = http.StatusUnprocessableEntity
		}
		jsonError(w, "chunking failed: "+err.Error(), status)
		return
	}

	origin := docmeta.Origin{
		Mimetype:   docmeta.MimetypeFor(filename),
		BinaryHash: docmeta.BinaryHash(data),
		Filename:   filename,
	}

	s.log.Info("chunked upload",
		"filename", filename,
		"pages", res.TotalPages,
		"chunks", res.TotalChunks,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chunkResponse{
		Chunks:           chunker.Records(res.Chunks, origin),
		TotalPages:       res.TotalPages,
		TotalChunks:      res.TotalChunks,
		ProcessingTimeMS: res.ProcessingTime.Milliseconds(),
	})
}

// handleStats returns pipeline throughput and latency statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.chunker.Stats())
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// sanitizeFilename strips path components from an uploaded filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}
