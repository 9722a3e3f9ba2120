package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pharmadoc/regchunk/internal/chunker"
	"github.com/pharmadoc/regchunk/internal/extract"
	"github.com/pharmadoc/regchunk/internal/pipeline"
	"github.com/pharmadoc/regchunk/internal/record"
)

// handleChunk accepts one document as a multipart upload and streams
// its chunk records back as JSON lines. Form fields chunk_by,
// chunk_size, and overlap override the server defaults per request;
// invalid combinations are rejected before any processing starts.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !extract.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	chunkCfg, err := s.requestChunkConfig(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	worker := pipeline.NewWorker(chunkCfg, s.metaOpts, s.log)
	res := worker.Process(r.Context(), filename, file)
	if res.Err != nil {
		jsonError(w, res.Err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Regchunk-Chunks", strconv.Itoa(len(res.Chunks)))
	w.Header().Set("X-Regchunk-Warnings", strconv.Itoa(len(res.Warnings)))
	if err := record.NewWriter(w).WriteDocument(res.Chunks); err != nil {
		s.log.Error("stream chunks", "doc", filename, "error", err)
	}
}

// requestChunkConfig merges per-request overrides into the server's
// chunking defaults and validates the result.
func (s *Server) requestChunkConfig(r *http.Request) (chunker.Config, error) {
	cfg := s.cfg.ChunkerConfig()
	if v := r.FormValue("chunk_by"); v != "" {
		mode, err := chunker.ParseMode(v)
		if err != nil {
			return chunker.Config{}, err
		}
		cfg.Mode = mode
	}
	if v := r.FormValue("chunk_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return chunker.Config{}, fmt.Errorf("chunk_size: %w", err)
		}
		cfg.ChunkSize = n
	}
	if v := r.FormValue("overlap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return chunker.Config{}, fmt.Errorf("overlap: %w", err)
		}
		cfg.Overlap = n
	}
	if err := cfg.Validate(); err != nil {
		return chunker.Config{}, err
	}
	return cfg, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
