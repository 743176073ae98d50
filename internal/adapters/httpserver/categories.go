package httpserver

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/boscoapparel/shop/internal/usecase"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listCategories(w, r)
	case http.MethodPost:
		s.createCategory(w, r)
	default:
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.List(r.Context())
	if err != nil {
		failErr(w, err, "Category not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"data": cats})
}

// categoryInputFromForm maps the multipart form onto the usecase input;
// absent fields stay nil so updates are partial.
func categoryInputFromForm(form *multipart.Form) (usecase.CategoryInput, error) {
	var in usecase.CategoryInput
	if v, okv := formValue(form, "name"); okv {
		in.Name = v
	}
	if v, okv := formValue(form, "description"); okv {
		d := v
		in.Description = &d
	}
	if v, okv := formValue(form, "isActive"); okv {
		b := cast.ToBool(v)
		in.IsActive = &b
	}
	if v, okv := formValue(form, "featured"); okv {
		b := cast.ToBool(v)
		in.Featured = &b
	}
	if v, okv := formValue(form, "displayOrder"); okv {
		d := cast.ToInt(v)
		in.DisplayOrder = &d
	}
	if v, okv := formValue(form, "removeImage"); okv {
		in.RemoveImage = cast.ToBool(v)
	}
	files, err := readUploads(form, "image")
	if err != nil {
		return in, err
	}
	if len(files) > 0 {
		in.Image = &files[0]
	}
	return in, nil
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		fail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	in, err := categoryInputFromForm(r.MultipartForm)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	c, err := s.categories.Create(r.Context(), in)
	if err != nil {
		failErr(w, err, "Category not found", "Category with this name already exists")
		return
	}
	ok(w, http.StatusCreated, map[string]any{"message": "Category created successfully", "data": c})
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/categories/"), "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		fail(w, http.StatusNotFound, "Category not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.getCategory(w, r, id)
	case http.MethodPut:
		s.updateCategory(w, r, id)
	case http.MethodDelete:
		s.deleteCategory(w, r, id)
	default:
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	c, products, err := s.categories.Get(r.Context(), id)
	if err != nil {
		failErr(w, err, "Category not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"category":      c,
			"products":      products,
			"productsCount": len(products),
		},
	})
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		fail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	in, err := categoryInputFromForm(r.MultipartForm)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	c, err := s.categories.Update(r.Context(), id, in)
	if err != nil {
		failErr(w, err, "Category not found", "Category with this name already exists")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Category updated successfully", "data": c})
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	if err := s.categories.Delete(r.Context(), id); err != nil {
		failErr(w, err, "Category not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Category deleted successfully"})
}
