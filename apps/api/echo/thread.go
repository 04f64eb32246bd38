package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core/thread"
)

const msgThreadDeleted = "Thread deleted"

type threadApi struct {
	svc      *thread.Service
	validate *validator.Validate
}

func registerThreadAPI(g *echo.Group, jwt, protect echo.MiddlewareFunc, svc *thread.Service, validate *validator.Validate) {
	api := threadApi{svc: svc, validate: validate}

	tg := g.Group("/threads", jwt, protect)
	tg.GET("", api.query)
	tg.POST("", api.create)

	// detail endpoints
	tg.GET("/:id", api.retrieve)
	tg.DELETE("/:id", api.destroy)
	tg.POST("/:id/replies", api.reply)
	tg.DELETE("/:id/replies/:replyId", api.deleteReply)
}

func (api *threadApi) query(ctx echo.Context) error {
	threads, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying threads")
	}
	if threads == nil {
		threads = []thread.Thread{}
	}
	return respondList(ctx, threads, len(threads))
}

func (api *threadApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.View(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "viewing thread")
	}
	return respond(ctx, http.StatusOK, t)
}

func (api *threadApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data thread.NewThread
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewThread")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), usr.Actor(), data)
	if err != nil {
		return errors.Wrap(err, "creating thread")
	}
	return respond(ctx, http.StatusCreated, t)
}

func (api *threadApi) reply(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data thread.NewReply
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReply")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.AddReply(ctx.Request().Context(), ctx.Param("id"), usr.Actor(), data)
	if err != nil {
		return errors.Wrap(err, "adding reply")
	}
	return respond(ctx, http.StatusOK, t)
}

func (api *threadApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), usr.Actor()); err != nil {
		return errors.Wrap(err, "deleting thread")
	}
	return respondMessage(ctx, msgThreadDeleted)
}

func (api *threadApi) deleteReply(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	t, err := api.svc.DeleteReply(ctx.Request().Context(), ctx.Param("id"), ctx.Param("replyId"), usr.Actor())
	if err != nil {
		return errors.Wrap(err, "deleting reply")
	}
	return respond(ctx, http.StatusOK, t)
}
