package httpserver

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/boscoapparel/shop/internal/domain"
	"github.com/boscoapparel/shop/internal/usecase"
)

const maxUploadBytes = 20 << 20

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listProducts(w, r)
	case http.MethodPost:
		s.createProduct(w, r)
	default:
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	f := domain.ProductFilter{
		Page:     cast.ToInt(qv.Get("page")),
		PageSize: cast.ToInt(qv.Get("limit")),
		Category: qv.Get("category"),
		Search:   qv.Get("search"),
		Sort:     qv.Get("sort"),
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	if v := qv.Get("featured"); v != "" {
		b := cast.ToBool(v)
		f.Featured = &b
	}
	if v := qv.Get("minPrice"); v != "" {
		p := cast.ToFloat64(v)
		f.MinPrice = &p
	}
	if v := qv.Get("maxPrice"); v != "" {
		p := cast.ToFloat64(v)
		f.MaxPrice = &p
	}
	products, total, err := s.products.List(r.Context(), f)
	if err != nil {
		failErr(w, err, "Product not found", "")
		return
	}
	totalPages := (total + int64(f.PageSize) - 1) / int64(f.PageSize)
	ok(w, http.StatusOK, map[string]any{
		"data": products,
		"pagination": map[string]any{
			"page":        f.Page,
			"limit":       f.PageSize,
			"total":       total,
			"totalPages":  totalPages,
			"hasNextPage": int64(f.Page) < totalPages,
			"hasPrevPage": f.Page > 1,
		},
	})
}

func (s *Server) handleNewArrivals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 8
	}
	products, err := s.products.NewArrivals(r.Context(), limit)
	if err != nil {
		failErr(w, err, "Product not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"data": products})
}

// readUploads drains the multipart files under the given form key.
func readUploads(form *multipart.Form, key string) ([]usecase.Upload, error) {
	var uploads []usecase.Upload
	for _, fh := range form.File[key] {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, usecase.Upload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	vals, okv := form.Value[key]
	if !okv || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// productInputFromForm maps the admin multipart form onto the usecase input.
// Absent fields stay nil so updates are partial.
func productInputFromForm(form *multipart.Form) (usecase.ProductInput, error) {
	var in usecase.ProductInput
	if v, okv := formValue(form, "name"); okv {
		in.Name = v
	}
	if v, okv := formValue(form, "description"); okv {
		d := v
		in.Description = &d
	}
	if v, okv := formValue(form, "price"); okv {
		p := cast.ToFloat64(v)
		in.Price = &p
	}
	if v, okv := formValue(form, "discountPercent"); okv {
		d := cast.ToFloat64(v)
		in.DiscountPercent = &d
	}
	if v, okv := formValue(form, "category"); okv {
		id, err := uuid.Parse(v)
		if err != nil {
			return in, domain.ValidationError("Category not found")
		}
		in.CategoryID = &id
	}
	if v, okv := formValue(form, "status"); okv {
		st := domain.ProductStatus(v)
		in.Status = &st
	}
	if v, okv := formValue(form, "featured"); okv {
		b := cast.ToBool(v)
		in.Featured = &b
	}
	if v, okv := formValue(form, "quantity"); okv {
		q := cast.ToInt(v)
		in.Quantity = &q
	}
	for _, v := range form.Value["imagesToDelete"] {
		if v != "" {
			in.ImagesToDelete = append(in.ImagesToDelete, v)
		}
	}
	files, err := readUploads(form, "images")
	if err != nil {
		return in, err
	}
	in.Files = files
	return in, nil
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		fail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	in, err := productInputFromForm(r.MultipartForm)
	if err != nil {
		failErr(w, err, "Product not found", "Product with this name already exists")
		return
	}
	p, err := s.products.Create(r.Context(), in)
	if err != nil {
		failErr(w, err, "Product not found", "Product with this name already exists")
		return
	}
	ok(w, http.StatusCreated, map[string]any{"message": "Product created successfully", "data": p})
}

func (s *Server) handleProductByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	parts := strings.Split(rest, "/")
	idStr := parts[0]
	id, err := uuid.Parse(idStr)
	if err != nil {
		fail(w, http.StatusNotFound, "Product not found with ID: "+idStr)
		return
	}
	switch {
	case len(parts) == 2 && parts[1] == "inventory":
		if r.Method != http.MethodPatch {
			fail(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.updateInventory(w, r, id)
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			s.getProduct(w, r, id)
		case http.MethodPut:
			s.updateProduct(w, r, id)
		case http.MethodDelete:
			s.deleteProduct(w, r, id)
		default:
			fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	default:
		fail(w, http.StatusNotFound, "Route not found")
	}
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := s.products.Get(r.Context(), id)
	if err != nil {
		failErr(w, err, "Product not found with ID: "+id.String(), "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"data": p})
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		fail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	in, err := productInputFromForm(r.MultipartForm)
	if err != nil {
		failErr(w, err, "Product not found with ID: "+id.String(), "Product with this name already exists")
		return
	}
	p, err := s.products.Update(r.Context(), id, in)
	if err != nil {
		failErr(w, err, "Product not found with ID: "+id.String(), "Product with this name already exists")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Product updated successfully", "data": p})
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	if err := s.products.Delete(r.Context(), id); err != nil {
		failErr(w, err, "Product not found with ID: "+id.String(), "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Product deleted successfully"})
}

func (s *Server) updateInventory(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Quantity == nil || *req.Quantity < 0 {
		fail(w, http.StatusBadRequest, "Quantity must be a non-negative number")
		return
	}
	p, err := s.products.UpdateInventory(r.Context(), id, *req.Quantity)
	if err != nil {
		failErr(w, err, "Product not found with ID: "+id.String(), "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Inventory updated successfully", "data": p})
}
