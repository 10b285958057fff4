package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/bind"
	"github.com/shashiranjanraj/nepkart/pkg/ctx"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Index lists products, filtered by ?category= and ?search=.
func (pc *ProductController) Index(c *ctx.Context) {
	filter := repositories.ProductFilter{Category: c.Query("category"), Search: c.Query("search")}
	products, page, err := pc.products.All(c.Context(), filter, c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(products, page)
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	p, err := pc.products.Find(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) ShowBySKU(c *ctx.Context) {
	p, err := pc.products.FindBySKU(c.Context(), c.Param("sku"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) OutOfStock(c *ctx.Context) {
	products, err := pc.products.ListOutOfStock(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(products)
}

func (pc *ProductController) LowStock(c *ctx.Context) {
	products, err := pc.products.ListLowStock(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(products)
}

func (pc *ProductController) Store(c *ctx.Context) {
	var p models.Product
	if !c.BindJSON(&p) {
		return
	}
	if err := pc.products.Create(c.Context(), &p); err != nil {
		fail(c, err)
		return
	}
	c.Created(p)
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	var in models.Product
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.products.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	if err := pc.products.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

// UploadImage accepts a multipart "image" file.
func (pc *ProductController) UploadImage(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, bind.MaxBodyBytes())
	if err := c.R.ParseMultipartForm(bind.MaxBodyBytes()); err != nil {
		c.Error(http.StatusBadRequest, "Invalid multipart body")
		return
	}
	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.ValidationError(map[string]string{"image": "The image field is required."})
		return
	}
	defer file.Close()

	p, err := pc.products.AttachImage(c.Context(), id, header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}
