package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/model"
)

// ==================== 分类管理（仅超级用户，由路由层 Gate 保护） ====================

// CategoryList 分页分类列表，query 参数 page，越界钳位
func (h *Handler) CategoryList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	info, categories, err := h.Catalog.ListCategories(page)
	if err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "category_list.html", h.RenderData(c, gin.H{
		"Title":      "Categories - " + h.Config.SiteName,
		"Categories": categories,
		"Page":       info,
	}))
}

// CategoryCreatePage 创建分类表单
func (h *Handler) CategoryCreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "category_add.html", h.RenderData(c, gin.H{
		"Title": "Add category - " + h.Config.SiteName,
		"Name":  "",
	}))
}

// CategoryCreate 创建分类
func (h *Handler) CategoryCreate(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		Flash(c, "error", "Please correct the errors below.")
		c.HTML(http.StatusOK, "category_add.html", h.RenderData(c, gin.H{
			"Title":       "Add category - " + h.Config.SiteName,
			"Name":        name,
			"FieldErrors": map[string]string{"name": "Category name cannot be empty."},
		}))
		return
	}

	if _, err := h.Catalog.CreateCategory(name, ""); err != nil {
		// 名称或 slug 撞唯一约束
		Flash(c, "error", "Please correct the errors below.")
		c.HTML(http.StatusOK, "category_add.html", h.RenderData(c, gin.H{
			"Title":       "Add category - " + h.Config.SiteName,
			"Name":        name,
			"FieldErrors": map[string]string{"name": "Category with this name already exists."},
		}))
		return
	}

	Flash(c, "success", "Create category is success")
	c.Redirect(http.StatusFound, "/categor")
}

// resolveCategory 按主键解析分类。不存在或存储异常都以一次性提示 +
// 重定向到列表页收场，调用方只能通过提示文本区分
func (h *Handler) resolveCategory(c *gin.Context) *model.Category {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		Flash(c, "error", "Category id is not found.")
		c.Redirect(http.StatusFound, "/categor")
		return nil
	}

	category, err := h.Catalog.FindCategory(id)
	if err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/categor")
		return nil
	}
	if category == nil {
		Flash(c, "error", "Category id is not found.")
		c.Redirect(http.StatusFound, "/categor")
		return nil
	}

	return category
}

// CategoryEditPage 编辑分类表单
func (h *Handler) CategoryEditPage(c *gin.Context) {
	category := h.resolveCategory(c)
	if category == nil {
		return
	}

	c.HTML(http.StatusOK, "category_edit.html", h.RenderData(c, gin.H{
		"Title":    "Edit category - " + h.Config.SiteName,
		"Category": category,
	}))
}

// CategoryEdit 更新分类
func (h *Handler) CategoryEdit(c *gin.Context) {
	category := h.resolveCategory(c)
	if category == nil {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		Flash(c, "error", "Please correct the errors below.")
		c.HTML(http.StatusOK, "category_edit.html", h.RenderData(c, gin.H{
			"Title":       "Edit category - " + h.Config.SiteName,
			"Category":    category,
			"FieldErrors": map[string]string{"name": "Category name cannot be empty."},
		}))
		return
	}

	if err := h.Catalog.UpdateCategory(category, name); err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/categor")
		return
	}

	Flash(c, "success", "Update is success")
	c.Redirect(http.StatusFound, "/categor")
}

// CategoryDelete 删除分类
func (h *Handler) CategoryDelete(c *gin.Context) {
	category := h.resolveCategory(c)
	if category == nil {
		return
	}

	if err := h.Catalog.DeleteCategory(category.ID); err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/categor")
		return
	}

	Flash(c, "success", "Delete is success")
	c.Redirect(http.StatusFound, "/categor")
}
