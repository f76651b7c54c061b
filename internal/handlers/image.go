package handlers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"webucket/internal/config"
	"webucket/internal/model"
	"webucket/internal/service"
)

// ImageHandler serves image upload and streaming endpoints.
type ImageHandler struct {
	Images *service.ImageService
	Users  *service.UserService
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewImageHandler(images *service.ImageService, users *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *ImageHandler {
	return &ImageHandler{Images: images, Users: users, Logger: logger, Config: cfg}
}

// readUpload pulls the "file" multipart field, enforces the size limit and
// sniffs the content type. Only image/* payloads are accepted; the sniffed
// type wins over whatever the client declared.
func (h *ImageHandler) readUpload(w http.ResponseWriter, r *http.Request) (service.ImageUpload, bool) {
	maxBytes := int64(h.Config.ImageMaxSizeMB) * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024*1024)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return service.ImageUpload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return service.ImageUpload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return service.ImageUpload{}, false
	}
	if int64(len(data)) > maxBytes {
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return service.ImageUpload{}, false
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		http.Error(w, fmt.Sprintf("unsupported content type %s, expected an image", mtype.String()), http.StatusBadRequest)
		return service.ImageUpload{}, false
	}

	return service.ImageUpload{
		Filename:    header.Filename,
		ContentType: mtype.String(),
		Data:        data,
	}, true
}

// serveImage streams the stored bytes with the stored content type. A ?w=
// query downscales jpeg and png on the fly; other formats are served as is.
func (h *ImageHandler) serveImage(w http.ResponseWriter, r *http.Request, img *model.Image) {
	data := img.Data
	if q := r.URL.Query().Get("w"); q != "" {
		if width, err := strconv.Atoi(q); err == nil && width > 0 {
			if scaled, ok := h.thumbnail(img, uint(width)); ok {
				data = scaled
			}
		}
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (h *ImageHandler) thumbnail(img *model.Image, width uint) ([]byte, bool) {
	if img.ContentType != "image/jpeg" && img.ContentType != "image/png" {
		return nil, false
	}
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		h.Logger.Warnw("thumbnail: decode failed", "image_id", img.ID, "error", err)
		return nil, false
	}
	scaled := resize.Resize(width, 0, decoded, resize.Lanczos3)

	var buf bytes.Buffer
	if img.ContentType == "image/png" {
		err = png.Encode(&buf, scaled)
	} else {
		err = jpeg.Encode(&buf, scaled, nil)
	}
	if err != nil {
		h.Logger.Warnw("thumbnail: encode failed", "image_id", img.ID, "error", err)
		return nil, false
	}
	return buf.Bytes(), true
}

func (h *ImageHandler) SetUserImage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	img, err := h.Images.SetUserImage(r.Context(), user.ID, up)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (h *ImageHandler) GetUserImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r, h.Users); !ok {
		return
	}
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	img, err := h.Images.GetUserImage(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.serveImage(w, r, img)
}

func (h *ImageHandler) SetBucketImage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	img, err := h.Images.SetBucketImage(r.Context(), user, chi.URLParam(r, "bucketID"), up)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (h *ImageHandler) GetBucketImage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	img, err := h.Images.GetBucketImage(r.Context(), user, chi.URLParam(r, "bucketID"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.serveImage(w, r, img)
}

func (h *ImageHandler) AddItemImage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	img, err := h.Images.AddItemImage(r.Context(), user, chi.URLParam(r, "itemID"), up)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (h *ImageHandler) GetItemImage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	img, err := h.Images.GetItemImage(r.Context(), user, chi.URLParam(r, "itemID"), chi.URLParam(r, "imageID"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.serveImage(w, r, img)
}

// GetItemImagesZip bundles all of the item's images into one zip download.
func (h *ImageHandler) GetItemImagesZip(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "itemID")
	imgs, err := h.Images.ListItemImages(r.Context(), user, itemID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="item-%s-images.zip"`, itemID))

	zw := zip.NewWriter(w)
	for i, img := range imgs {
		// prefix keeps entries unique when filenames repeat
		entry, err := zw.Create(fmt.Sprintf("%02d_%s", i+1, img.Filename))
		if err != nil {
			h.Logger.Errorw("zip: create entry failed", "item_id", itemID, "error", err)
			return
		}
		if _, err := entry.Write(img.Data); err != nil {
			h.Logger.Errorw("zip: write entry failed", "item_id", itemID, "error", err)
			return
		}
	}
	if err := zw.Close(); err != nil {
		h.Logger.Errorw("zip: close failed", "item_id", itemID, "error", err)
	}
}
