package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mindful-metrics/scrollcheck/internal/export"
	"github.com/mindful-metrics/scrollcheck/internal/storage"
)

// POST /admin/exports
func CreateExportHandler(svc *export.Service, bs storage.BlobStore, onCreated func(r *http.Request, key string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := svc.CreateArchive(r.Context())
		if err != nil {
			http.Error(w, "export failed: "+err.Error(), 500)
			return
		}
		if onCreated != nil {
			onCreated(r, key)
		}
		url, _ := bs.SignedURL(key)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"key": key, "url": url})
	}
}

// GET /admin/exports/*  -> streams the blob at whatever follows the prefix.
func DownloadExportHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found: "+err.Error(), http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/zip")
		_, _ = io.Copy(w, rc)
	}
}
