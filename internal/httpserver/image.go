package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kstrelkov/webshop/internal/models"
	"github.com/kstrelkov/webshop/internal/repo"
	"github.com/kstrelkov/webshop/pkg/logging"
)

// ImageStore moves uploaded product images to disk and records their public
// URLs.
type ImageStore struct {
	Repo      *repo.GormRepo
	Dir       string
	PublicURL string
}

func (s *ImageStore) saveFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/images/%s", s.PublicURL, name), nil
}

// SaveFromRequest stores every file under the multipart "images" field and
// records one ProductImage row per file.
func (s *ImageStore) SaveFromRequest(c echo.Context, productID uint) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}

	ctx := c.Request().Context()
	uploaded := make([]string, 0, len(files))
	for _, file := range files {
		url, err := s.saveFile(file)
		if err != nil {
			return uploaded, err
		}
		row := models.ProductImage{ProductID: productID, Image: url}
		if err := s.Repo.AddProductImage(ctx, &row); err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, url)
	}
	return uploaded, nil
}

func (s *ImageStore) RemoveFiles(l *slog.Logger, images []models.ProductImage) {
	for _, image := range images {
		path := filepath.Join(s.Dir, filepath.Base(image.Image))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			l.Warn("image_file_remove_failed", "path", path, "error", err)
		}
	}
}

type ProductImageHTTP struct {
	Store *ImageStore
}

func (h *ProductImageHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_image.upload")

	productID := uint(parseIntDefault(c.FormValue("product_id"), 0))
	if productID == 0 {
		return respondError(c, http.StatusUnprocessableEntity, "product_id is required")
	}
	if _, err := h.Store.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Not found")
		}
		l.Error("product_lookup_failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Failed to upload image")
	}

	uploaded, err := h.Store.SaveFromRequest(c, productID)
	if err != nil {
		l.Error("image_upload_failed", "product_id", productID, "error", err)
		return respondError(c, http.StatusInternalServerError, "Failed to upload image")
	}

	return respondOK(c, http.StatusOK, "Images uploaded successfully", map[string]any{
		"images": uploaded,
	})
}

func (h *ProductImageHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_image.delete")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, "Not found")
	}

	image, err := h.Store.Repo.GetProductImage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Not found")
		}
		l.Error("image_lookup_failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Failed to delete image")
	}

	if err := h.Store.Repo.DeleteProductImage(ctx, id); err != nil {
		l.Error("image_delete_failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Failed to delete image")
	}
	h.Store.RemoveFiles(l, []models.ProductImage{*image})

	return respondOK(c, http.StatusOK, "Image deleted successfully", nil)
}
