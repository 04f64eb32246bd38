package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core/chapter"
)

type questionApi struct {
	svc      *chapter.Service
	validate *validator.Validate
}

func registerQuestionAPI(g *echo.Group, jwt, protect echo.MiddlewareFunc, svc *chapter.Service, validate *validator.Validate) {
	api := questionApi{svc: svc, validate: validate}

	qg := g.Group("/questions", jwt, protect)
	qg.POST("", api.create)
	qg.GET("/chapter/:chapterId", api.queryByChapter)

	// detail endpoints
	qg.GET("/:id", api.retrieve)
	qg.PUT("/:id", api.update)
	qg.PUT("/:id/toggle-logic", api.toggleLogic)
	qg.PUT("/:id/toggle-code", api.toggleCode)
	qg.DELETE("/:id", api.destroy)
}

func (api *questionApi) queryByChapter(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	questions, err := api.svc.QueryQuestions(ctx.Request().Context(), ctx.Param("chapterId"), usr.ID)
	if err != nil {
		return denied(errors.Wrap(err, "querying questions"), http.StatusUnauthorized, msgNotAuthorized)
	}
	if questions == nil {
		questions = []chapter.Question{}
	}
	return respondList(ctx, questions, len(questions))
}

func (api *questionApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	q, err := api.svc.GetQuestion(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		return denied(errors.Wrap(err, "getting question"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusOK, q)
}

func (api *questionApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data chapter.NewQuestion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.CreateQuestion(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return denied(errors.Wrap(err, "creating question"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusCreated, q)
}

func (api *questionApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data chapter.UpdateQuestion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuestion")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.UpdateQuestion(ctx.Request().Context(), ctx.Param("id"), usr.ID, data)
	if err != nil {
		return denied(errors.Wrap(err, "updating question"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusOK, q)
}

func (api *questionApi) toggleLogic(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	q, err := api.svc.ToggleLogic(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		return denied(errors.Wrap(err, "toggling logic"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusOK, q)
}

func (api *questionApi) toggleCode(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	q, err := api.svc.ToggleCode(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		return denied(errors.Wrap(err, "toggling code"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusOK, q)
}

func (api *questionApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.DeleteQuestion(ctx.Request().Context(), ctx.Param("id"), usr.ID); err != nil {
		return denied(errors.Wrap(err, "deleting question"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respondDeleted(ctx)
}
