package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core/cheatsheet"
)

type cheatsheetApi struct {
	svc      *cheatsheet.Service
	validate *validator.Validate
}

func registerCheatsheetAPI(g *echo.Group, jwt, protect echo.MiddlewareFunc, svc *cheatsheet.Service, validate *validator.Validate) {
	api := cheatsheetApi{svc: svc, validate: validate}

	cg := g.Group("/cheatsheets", jwt, protect)
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)

	// items
	cg.POST("/:id/items", api.addItem)
	cg.PUT("/:id/items/:itemId", api.updateItem)
	cg.DELETE("/:id/items/:itemId", api.deleteItem)
}

func (api *cheatsheetApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	sheets, err := api.svc.Query(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying cheatsheets")
	}
	if sheets == nil {
		sheets = []cheatsheet.Cheatsheet{}
	}
	return respondList(ctx, sheets, len(sheets))
}

func (api *cheatsheetApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	cs, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		return denied(errors.Wrap(err, "getting cheatsheet"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusOK, cs)
}

func (api *cheatsheetApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data cheatsheet.NewCheatsheet
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCheatsheet")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	cs, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating cheatsheet")
	}
	return respond(ctx, http.StatusCreated, cs)
}

func (api *cheatsheetApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data cheatsheet.UpdateCheatsheet
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCheatsheet")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	cs, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), usr.ID, data)
	if err != nil {
		return denied(errors.Wrap(err, "updating cheatsheet"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusOK, cs)
}

func (api *cheatsheetApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), usr.ID); err != nil {
		return denied(errors.Wrap(err, "deleting cheatsheet"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respondDeleted(ctx)
}

func (api *cheatsheetApi) addItem(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data cheatsheet.NewItem
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	cs, err := api.svc.AddItem(ctx.Request().Context(), ctx.Param("id"), usr.ID, data)
	if err != nil {
		return denied(errors.Wrap(err, "adding item"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusCreated, cs)
}

func (api *cheatsheetApi) updateItem(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data cheatsheet.UpdateItem
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateItem")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	cs, err := api.svc.UpdateItem(ctx.Request().Context(), ctx.Param("id"), ctx.Param("itemId"), usr.ID, data)
	if err != nil {
		return denied(errors.Wrap(err, "updating item"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusOK, cs)
}

func (api *cheatsheetApi) deleteItem(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	cs, err := api.svc.DeleteItem(ctx.Request().Context(), ctx.Param("id"), ctx.Param("itemId"), usr.ID)
	if err != nil {
		return denied(errors.Wrap(err, "deleting item"), http.StatusUnauthorized, msgNotAuthorized)
	}
	return respond(ctx, http.StatusOK, cs)
}
