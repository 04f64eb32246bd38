package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core/chapter"
)

const (
	msgChapterAccessDenied = "Not authorized to access this chapter"
	msgChapterUpdateDenied = "Not authorized to update this chapter"
	msgChapterDeleteDenied = "Not authorized to delete this chapter"
)

type chapterApi struct {
	svc      *chapter.Service
	validate *validator.Validate
}

func registerChapterAPI(g *echo.Group, jwt, protect echo.MiddlewareFunc, svc *chapter.Service, validate *validator.Validate) {
	api := chapterApi{svc: svc, validate: validate}

	cg := g.Group("/chapters", jwt, protect)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.PUT("/reorder/all", api.reorder)

	// detail endpoints
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

func (api *chapterApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	chapters, err := api.svc.Query(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying chapters")
	}
	if chapters == nil {
		chapters = []chapter.Chapter{}
	}
	return respondList(ctx, chapters, len(chapters))
}

func (api *chapterApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	detail, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		return denied(errors.Wrap(err, "getting chapter"), http.StatusUnauthorized, msgChapterAccessDenied)
	}
	if detail.Questions == nil {
		detail.Questions = []chapter.Question{}
	}
	return respond(ctx, http.StatusOK, detail)
}

func (api *chapterApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data chapter.NewChapter
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChapter")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ch, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating chapter")
	}
	return respond(ctx, http.StatusCreated, ch)
}

func (api *chapterApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data chapter.UpdateChapter
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChapter")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ch, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), usr.ID, data)
	if err != nil {
		return denied(errors.Wrap(err, "updating chapter"), http.StatusUnauthorized, msgChapterUpdateDenied)
	}
	return respond(ctx, http.StatusOK, ch)
}

func (api *chapterApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), usr.ID); err != nil {
		return denied(errors.Wrap(err, "deleting chapter"), http.StatusUnauthorized, msgChapterDeleteDenied)
	}
	return respondDeleted(ctx)
}

func (api *chapterApi) reorder(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data chapter.Reorder
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Reorder")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	chapters, err := api.svc.Reorder(ctx.Request().Context(), usr.ID, data.Chapters)
	if err != nil {
		return errors.Wrap(err, "reordering chapters")
	}
	if chapters == nil {
		chapters = []chapter.Chapter{}
	}
	return respond(ctx, http.StatusOK, chapters)
}
