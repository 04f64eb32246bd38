package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core/blog"
)

type blogApi struct {
	svc      *blog.Service
	validate *validator.Validate
}

func registerBlogAPI(g *echo.Group, jwt, protect echo.MiddlewareFunc, svc *blog.Service, validate *validator.Validate) {
	api := blogApi{svc: svc, validate: validate}

	bg := g.Group("/blogs", jwt, protect)
	bg.GET("", api.queryPublished)
	bg.POST("", api.create)
	bg.GET("/mine", api.queryMine)

	// admin endpoints
	bg.GET("/pending", api.queryPending, adminMiddleware())
	bg.GET("/admin/all", api.queryAll, adminMiddleware())
	bg.PUT("/:id/review", api.review, adminMiddleware())

	// detail endpoints
	bg.GET("/:id", api.retrieve)
	bg.PUT("/:id", api.update)
	bg.PUT("/:id/like", api.like)
	bg.DELETE("/:id", api.destroy)
}

func (api *blogApi) list(ctx echo.Context, query func(context.Context) ([]blog.Blog, error)) error {
	blogs, err := query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying blogs")
	}
	if blogs == nil {
		blogs = []blog.Blog{}
	}
	return respondList(ctx, blogs, len(blogs))
}

func (api *blogApi) queryPublished(ctx echo.Context) error {
	return api.list(ctx, api.svc.QueryPublished)
}

func (api *blogApi) queryPending(ctx echo.Context) error {
	return api.list(ctx, api.svc.QueryPending)
}

func (api *blogApi) queryAll(ctx echo.Context) error {
	return api.list(ctx, api.svc.QueryAll)
}

func (api *blogApi) queryMine(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return api.list(ctx, func(c context.Context) ([]blog.Blog, error) {
		return api.svc.QueryMine(c, usr.ID)
	})
}

func (api *blogApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	b, err := api.svc.View(ctx.Request().Context(), ctx.Param("id"), usr.Actor())
	if err != nil {
		return errors.Wrap(err, "viewing blog")
	}
	return respond(ctx, http.StatusOK, b)
}

func (api *blogApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data blog.NewBlog
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBlog")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	b, err := api.svc.Create(ctx.Request().Context(), usr.Actor(), data)
	if err != nil {
		return errors.Wrap(err, "creating blog")
	}
	return respond(ctx, http.StatusCreated, b)
}

func (api *blogApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data blog.UpdateBlog
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBlog")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	b, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), usr.Actor(), data)
	if err != nil {
		return errors.Wrap(err, "updating blog")
	}
	return respond(ctx, http.StatusOK, b)
}

func (api *blogApi) review(ctx echo.Context) error {
	var data blog.Review
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Review")
	}

	b, err := api.svc.Review(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "reviewing blog")
	}
	return respond(ctx, http.StatusOK, b)
}

func (api *blogApi) like(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	b, err := api.svc.ToggleLike(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		return errors.Wrap(err, "toggling like")
	}
	return respond(ctx, http.StatusOK, b)
}

func (api *blogApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), usr.Actor()); err != nil {
		return errors.Wrap(err, "deleting blog")
	}
	return respondDeleted(ctx)
}
