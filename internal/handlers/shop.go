package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/uploads"
)

type ShopHandler struct {
	db *gorm.DB
}

func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{db: db}
}

// GetItems lists shop items with optional filters:
// ?category=, ?featured=true, ?in_stock=true, ?min_price=, ?max_price=,
// ?search=, ?sort= (price_asc, price_desc, rating)
func (h *ShopHandler) GetItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := h.db.Model(&models.ShopItem{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}
	if c.Query("in_stock") == "true" {
		query = query.Where("in_stock = ?", true)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	order := "featured DESC, created_at DESC"
	switch c.Query("sort") {
	case "price_asc":
		order = "price ASC"
	case "price_desc":
		order = "price DESC"
	case "rating":
		order = "rating DESC"
	}

	var total int64
	query.Count(&total)

	var items []models.ShopItem
	if err := query.
		Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch shop items")
		return
	}
	if items == nil {
		items = []models.ShopItem{}
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"total":   total,
		"page":    page,
		"pages":   pages,
		"data":    items,
	})
}

// GetItem returns a single shop item.
func (h *ShopHandler) GetItem(c *gin.Context) {
	item, ok := h.findItem(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

// GetCategories returns the fixed set of shop categories.
func (h *ShopHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": models.ShopCategories})
}

// CreateItem adds a catalog item. Admin only. Accepts multipart form data
// with an optional "image" file.
func (h *ShopHandler) CreateItem(c *gin.Context) {
	userID, _ := currentUserID(c)

	name := c.PostForm("name")
	if name == "" {
		fail(c, http.StatusBadRequest, "Item name is required")
		return
	}
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		fail(c, http.StatusBadRequest, "A valid price is required")
		return
	}
	category := c.PostForm("category")
	if !models.ValidShopCategory(category) {
		fail(c, http.StatusBadRequest, "Invalid category")
		return
	}

	item := models.ShopItem{
		Name:        name,
		Description: c.PostForm("description"),
		Price:       price,
		Category:    category,
		CreatedByID: userID,
	}
	if stock, err := strconv.Atoi(c.PostForm("stock")); err == nil && stock >= 0 {
		item.Stock = stock
		item.InStock = stock > 0
	}
	item.Featured = c.PostForm("featured") == "true"

	if file, err := c.FormFile("image"); err == nil {
		saved, err := uploads.Save(c, file, "shop")
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		item.Image = saved.URL
		item.ImagePublicID = saved.PublicID
	}

	if err := h.db.Create(&item).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Item created successfully", "data": item})
}

// UpdateItem edits a catalog item. Admin only.
func (h *ShopHandler) UpdateItem(c *gin.Context) {
	item, ok := h.findItem(c)
	if !ok {
		return
	}

	if name := c.PostForm("name"); name != "" {
		item.Name = name
	}
	if description := c.PostForm("description"); description != "" {
		item.Description = description
	}
	if price := c.PostForm("price"); price != "" {
		v, err := strconv.ParseFloat(price, 64)
		if err != nil || v < 0 {
			fail(c, http.StatusBadRequest, "A valid price is required")
			return
		}
		item.Price = v
	}
	if category := c.PostForm("category"); category != "" {
		if !models.ValidShopCategory(category) {
			fail(c, http.StatusBadRequest, "Invalid category")
			return
		}
		item.Category = category
	}
	if stock := c.PostForm("stock"); stock != "" {
		v, err := strconv.Atoi(stock)
		if err != nil || v < 0 {
			fail(c, http.StatusBadRequest, "A valid stock count is required")
			return
		}
		item.Stock = v
		item.InStock = v > 0
	}
	if featured := c.PostForm("featured"); featured != "" {
		item.Featured = featured == "true"
	}

	if file, err := c.FormFile("image"); err == nil {
		saved, err := uploads.Save(c, file, "shop")
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if item.ImagePublicID != "" {
			uploads.Remove("shop", item.ImagePublicID)
		}
		item.Image = saved.URL
		item.ImagePublicID = saved.PublicID
	}

	if err := h.db.Save(item).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item updated successfully", "data": item})
}

// DeleteItem removes a catalog item and its stored image. Admin only.
func (h *ShopHandler) DeleteItem(c *gin.Context) {
	item, ok := h.findItem(c)
	if !ok {
		return
	}

	if err := h.db.Delete(&models.ShopItem{}, item.ID).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	if item.ImagePublicID != "" {
		uploads.Remove("shop", item.ImagePublicID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item deleted successfully"})
}

func (h *ShopHandler) findItem(c *gin.Context) (*models.ShopItem, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid item ID")
		return nil, false
	}

	var item models.ShopItem
	if err := h.db.First(&item, uint(id)).Error; err != nil {
		fail(c, http.StatusNotFound, "Item not found")
		return nil, false
	}
	return &item, true
}
