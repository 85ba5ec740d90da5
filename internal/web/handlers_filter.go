package web

// handlers_filter.go implements the single upload-and-filter endpoint.
//
// Each request gets its own uniquely named input/output work files so
// concurrent uploads never collide; both are removed on every exit path
// once the response has been prepared, and cleanup failures are logged
// rather than swallowed.

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/forrest-aleq/sifter/internal/core"
	"github.com/forrest-aleq/sifter/internal/logging"
	"github.com/google/uuid"
)

// handleFilter accepts a multipart CSV upload plus repeated "extensions"
// form values, runs the filter engine and returns either the statistics
// payload (?stats=true) or the filtered file as an attachment.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, r, http.StatusBadRequest, "no file selected")
		return
	}

	extensions := r.MultipartForm.Value["extensions"]
	if len(extensions) == 0 {
		writeError(w, r, http.StatusBadRequest, "no extensions specified")
		return
	}

	files, err := s.newWorkFiles()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to create work files")
		return
	}
	defer files.cleanup(logger)

	if err := saveUpload(files.input, file); err != nil {
		logger.Error("saving upload failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to store uploaded file")
		return
	}

	result, err := core.Filter(files.input, files.output, extensions)
	if err != nil {
		var fe *core.Error
		if errors.As(err, &fe) {
			logger.Warn("filter failed", "kind", fe.Kind.String(), "error", err)
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("filter complete",
		"filename", header.Filename,
		"total_rows", result.TotalRows,
		"filtered_rows", result.FilteredRows,
		"rows_removed", result.RowsRemoved,
	)

	if strings.EqualFold(r.URL.Query().Get("stats"), "true") {
		writeJSON(w, http.StatusOK, result)
		return
	}

	s.sendFiltered(w, r, files.output, header.Filename)
}

// sendFiltered streams the filtered CSV back as a downloadable
// attachment named after the original upload.
func (s *Server) sendFiltered(w http.ResponseWriter, r *http.Request, path, originalName string) {
	// Read fully before responding so the deferred cleanup cannot race
	// the response body.
	data, err := os.ReadFile(path)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to read filtered file")
		return
	}

	filename := "filtered_" + filepath.Base(originalName)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Write(data)
}

// workFiles is the per-request pair of engine input/output paths.
type workFiles struct {
	input  string
	output string
}

// newWorkFiles reserves uniquely named input/output paths in the
// configured temp directory.
func (s *Server) newWorkFiles() (*workFiles, error) {
	dir := s.cfg.Upload.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}

	id := uuid.NewString()
	return &workFiles{
		input:  filepath.Join(dir, "sifter_"+id+"_in.csv"),
		output: filepath.Join(dir, "sifter_"+id+"_out.csv"),
	}, nil
}

// cleanup deletes both work files. The engine may not have created the
// output, so a missing file is not an error; anything else is logged.
func (f *workFiles) cleanup(logger *slog.Logger) {
	for _, path := range []string{f.input, f.output} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("work file cleanup failed", "path", path, "error", err)
		}
	}
}

// saveUpload copies the uploaded part to the engine's input path.
func saveUpload(path string, src multipart.File) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
