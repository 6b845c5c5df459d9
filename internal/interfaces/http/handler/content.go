package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	contentapp "github.com/masgolf/backend/internal/application/content"
	"github.com/masgolf/backend/internal/interfaces/http/dto"
)

// maxImageUpload caps a single uploaded image
const maxImageUpload = 20 << 20

// ContentHandler serves blog posts, image metadata and monthly funnel plans
type ContentHandler struct {
	BaseHandler
	posts  *contentapp.PostService
	images *contentapp.ImageService
	plans  *contentapp.PlanService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(posts *contentapp.PostService, images *contentapp.ImageService, plans *contentapp.PlanService) *ContentHandler {
	return &ContentHandler{posts: posts, images: images, plans: plans}
}

// CreatePost godoc
// @ID           createPost
// @Summary      Create a blog post
// @Description  The slug is derived from the title when empty
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body contentapp.CreatePostRequest true "Post"
// @Success      201 {object} APIResponse[contentapp.PostResponse]
// @Failure      409 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /posts [post]
func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req contentapp.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.posts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetPost returns a post by ID
func (h *ContentHandler) GetPost(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPostBySlug godoc
// @ID           getPostBySlug
// @Summary      Get a post by slug
// @Tags         content
// @Produce      json
// @Param        slug path string true "Slug"
// @Success      200 {object} APIResponse[contentapp.PostResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /posts/slug/{slug} [get]
func (h *ContentHandler) GetPostBySlug(c *gin.Context) {
	resp, err := h.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPosts godoc
// @ID           listPosts
// @Summary      List blog posts
// @Tags         content
// @Produce      json
// @Param        q query string false "Title"
// @Param        status query string false "Status" Enums(draft, published, archived)
// @Param        category query string false "Category"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} PageResponse[[]contentapp.PostResponse]
// @Router       /posts [get]
func (h *ContentHandler) ListPosts(c *gin.Context) {
	var filter contentapp.ListPostsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// UpdatePost applies a partial post update
func (h *ContentHandler) UpdatePost(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req contentapp.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.posts.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeletePost removes a post
func (h *ContentHandler) DeletePost(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage godoc
// @ID           uploadImage
// @Summary      Upload an image
// @Description  Stores the file in object storage and records its metadata. webp=true converts before storing.
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Image"
// @Param        category formData string false "Category"
// @Param        alt_text formData string false "Alt text"
// @Param        title formData string false "Title"
// @Param        description formData string false "Description"
// @Param        keywords formData string false "Comma separated keywords"
// @Param        webp formData bool false "Convert to WebP"
// @Success      201 {object} APIResponse[contentapp.ImageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /images [post]
func (h *ContentHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	if fh.Size > maxImageUpload {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "image exceeds 20MB")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageUpload))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var keywords []string
	for _, k := range strings.Split(c.PostForm("keywords"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	convert, _ := strconv.ParseBool(c.PostForm("webp"))

	resp, err := h.images.Upload(c.Request.Context(), contentapp.UploadImageRequest{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
		Category:    c.PostForm("category"),
		AltText:     c.PostForm("alt_text"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Keywords:    keywords,
		ConvertWebP: convert,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetImage returns image metadata
func (h *ContentHandler) GetImage(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.images.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListImages lists image metadata
func (h *ContentHandler) ListImages(c *gin.Context) {
	var filter contentapp.ListImagesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.images.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// UpdateImage edits image metadata
func (h *ContentHandler) UpdateImage(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req contentapp.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.images.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteImage removes the stored object and its metadata
func (h *ContentHandler) DeleteImage(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.images.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MigrateImage godoc
// @ID           migrateImageToWebP
// @Summary      Convert a stored image to WebP
// @Description  A failure after the new object is uploaded answers ERR_WEBP_PARTIAL; the new object is left in place.
// @Tags         content
// @Produce      json
// @Param        id path string true "Image ID" format(uuid)
// @Success      200 {object} APIResponse[contentapp.ImageResponse]
// @Failure      500 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /images/{id}/webp [post]
func (h *ContentHandler) MigrateImage(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.images.MigrateToWebP(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MigrateAllImages converts up to ?limit= non-WebP images
func (h *ContentHandler) MigrateAllImages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.images.MigrateAll(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreatePlan godoc
// @ID           createFunnelPlan
// @Summary      Create a monthly funnel plan
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body contentapp.CreatePlanRequest true "Plan"
// @Success      201 {object} APIResponse[contentapp.PlanResponse]
// @Failure      409 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /funnel-plans [post]
func (h *ContentHandler) CreatePlan(c *gin.Context) {
	var req contentapp.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.plans.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetPlan returns one plan
func (h *ContentHandler) GetPlan(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.plans.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPlans lists the plans of ?year=&month=, or all of them
func (h *ContentHandler) ListPlans(c *gin.Context) {
	var filter contentapp.ListPlansFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.plans.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdatePlan edits a plan
func (h *ContentHandler) UpdatePlan(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req contentapp.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.plans.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeletePlan removes a plan
func (h *ContentHandler) DeletePlan(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.plans.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
