package handler

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"vectordeck/internal/deck"
	"vectordeck/internal/pipeline"
)

// pptxMimeType is the media type of the generated deck.
const pptxMimeType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// HandleConvert converts the uploaded documents and responds with a deck
// attachment. Expected form fields: one or more "files" parts, optional
// "name" (deck filename stem) and "canvas" (widescreen | standard).
func HandleConvert(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		limit := app.maxUploadBytes()
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		if err := r.ParseMultipartForm(limit); err != nil {
			WriteError(w, http.StatusBadRequest, "上传内容无效或超过大小限制")
			return
		}
		defer r.MultipartForm.RemoveAll()

		parts := r.MultipartForm.File["files"]
		if len(parts) == 0 {
			WriteError(w, http.StatusBadRequest, "请至少上传一个文件")
			return
		}

		files := make([]pipeline.InputFile, 0, len(parts))
		for _, part := range parts {
			f, err := part.Open()
			if err != nil {
				WriteError(w, http.StatusBadRequest, fmt.Sprintf("读取文件 %s 失败", part.Filename))
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				WriteError(w, http.StatusBadRequest, fmt.Sprintf("读取文件 %s 失败", part.Filename))
				return
			}
			files = append(files, pipeline.InputFile{Name: part.Filename, Data: data})
		}

		conv := app.converter(r.FormValue("canvas"))
		results := conv.ConvertBatch(r.Context(), files)

		var buf bytes.Buffer
		if err := deck.Write(&buf, results, conv.Canvas()); err != nil {
			log.Printf("[Convert] deck build failed: %v", err)
			WriteError(w, http.StatusInternalServerError, "生成演示文稿失败")
			return
		}

		name := SanitizeDeckName(r.FormValue("name")) + ".pptx"
		w.Header().Set("Content-Type", pptxMimeType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(name)))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, &buf); err != nil {
			log.Printf("[Convert] response write failed: %v", err)
		}
	}
}

// HandleHealth reports service status.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// HandleConfig serves the current configuration (GET) and applies keyed
// updates (POST).
func HandleConfig(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			WriteJSON(w, http.StatusOK, app.configManager.Get())
		case http.MethodPost:
			var updates map[string]interface{}
			if err := ReadJSONBody(r, &updates); err != nil {
				WriteError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if err := app.configManager.Update(updates); err != nil {
				WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			WriteJSON(w, http.StatusOK, app.configManager.Get())
		default:
			WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}
