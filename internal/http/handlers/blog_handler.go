package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/repos"
	"printshop/internal/services"
)

type BlogHandler struct {
	Content *services.ContentService
}

func blogFilter(c *fiber.Ctx) repos.BlogFilter {
	return repos.BlogFilter{
		Category: domain.BlogCategory(c.Query("category")),
		Search:   c.Query("search"),
		Tag:      c.Query("tag"),
	}
}

// List shows published posts only.
func (h *BlogHandler) List(c *fiber.Ctx) error {
	f := blogFilter(c)
	f.Status = domain.BlogPublished
	p := pageOf(c)
	blogs, total, err := h.Content.ListBlogs(c.UserContext(), f, p)
	if err != nil {
		return err
	}
	return paged(c, blogs, p, total)
}

func (h *BlogHandler) Read(c *fiber.Ctx) error {
	b, err := h.Content.ReadBlog(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return ok(c, b)
}

// AdminList shows posts in every status, narrowed by ?status=.
func (h *BlogHandler) AdminList(c *fiber.Ctx) error {
	f := blogFilter(c)
	f.Status = domain.BlogStatus(c.Query("status"))
	p := pageOf(c)
	blogs, total, err := h.Content.ListBlogs(c.UserContext(), f, p)
	if err != nil {
		return err
	}
	return paged(c, blogs, p, total)
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	var in services.BlogInput
	if err := bind(c, &in); err != nil {
		return err
	}
	b, err := h.Content.CreateBlog(c.UserContext(), currentUser(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.blog.create", map[string]any{"blog_id": b.ID, "slug": b.Slug})
	return created(c, "Blog created", b)
}

func (h *BlogHandler) Update(c *fiber.Ctx) error {
	var in services.BlogInput
	if err := bind(c, &in); err != nil {
		return err
	}
	b, err := h.Content.UpdateBlog(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.blog.update", map[string]any{"blog_id": b.ID})
	return ok(c, b)
}

func (h *BlogHandler) SetStatus(c *fiber.Ctx) error {
	var in struct {
		Status domain.BlogStatus `json:"status"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	b, err := h.Content.SetBlogStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.blog.status", map[string]any{"blog_id": b.ID, "status": b.Status})
	return ok(c, b)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Content.DeleteBlog(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.blog.delete", map[string]any{"blog_id": id})
	return done(c, "Blog deleted")
}
