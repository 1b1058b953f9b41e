package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/example/fashion-catalog/internal/upload"
)

const (
	uploadField     = "images"
	maxUploadFiles  = 10
	multipartMemory = 8 << 20
)

// UploadResponse lists the URLs of the stored images in request order
type UploadResponse struct {
	URLs    []string `json:"urls"`
	Message string   `json:"message"`
}

// UploadImages accepts multipart "images" files. Each file is stored on disk
// when possible and returned as a data URL otherwise.
func (h *Handlers) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFiles*upload.MaxFileSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		respondJSONError(w, "Requisição inválida", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Printf("[Upload] Error removing multipart temp files: %v", err)
		}
	}()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		respondJSONError(w, "Nenhuma imagem enviada", http.StatusBadRequest)
		return
	}
	if len(headers) > maxUploadFiles {
		respondJSONError(w, fmt.Sprintf("Envie no máximo %d imagens", maxUploadFiles), http.StatusBadRequest)
		return
	}

	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readPart(fh)
		if err != nil {
			log.Printf("[API] Reading upload %s: %v", fh.Filename, err)
			respondJSONError(w, "Erro ao ler "+fh.Filename, http.StatusBadRequest)
			return
		}
		if err := upload.Validate(f); err != nil {
			respondJSONError(w, uploadMessage(f.Name, err), http.StatusBadRequest)
			return
		}
		files = append(files, f)
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, h.uploads.Store(r.Context(), f))
	}

	respondJSON(w, http.StatusOK, UploadResponse{
		URLs:    urls,
		Message: fmt.Sprintf("%d imagem(ns) enviada(s) com sucesso!", len(urls)),
	})
}

func readPart(fh *multipart.FileHeader) (upload.File, error) {
	src, err := fh.Open()
	if err != nil {
		return upload.File{}, err
	}
	defer src.Close()

	// one byte over the limit is enough for Validate to reject it
	data, err := io.ReadAll(io.LimitReader(src, upload.MaxFileSize+1))
	if err != nil {
		return upload.File{}, err
	}
	return upload.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func uploadMessage(name string, err error) string {
	switch {
	case errors.Is(err, upload.ErrNotImage):
		return fmt.Sprintf("Arquivo %s não é uma imagem", name)
	case errors.Is(err, upload.ErrTooLarge):
		return fmt.Sprintf("Arquivo %s excede 5MB", name)
	}
	return err.Error()
}
