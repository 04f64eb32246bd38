package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/ai"
	"github.com/trezcool/dotcoder/core/practice"
	"github.com/trezcool/dotcoder/core/user"
)

var errAIDisabled = echo.NewHTTPError(http.StatusForbidden, "AI features are disabled in your settings")

type aiApi struct {
	svc      *ai.Service
	practice *practice.Service
	validate *validator.Validate
}

func registerAIAPI(
	g *echo.Group,
	jwt, protect echo.MiddlewareFunc,
	svc *ai.Service,
	practiceSvc *practice.Service,
	validate *validator.Validate,
) {
	api := aiApi{svc: svc, practice: practiceSvc, validate: validate}

	aiOn := aiFeatureMiddleware(nil, "")
	mindmapOn := aiFeatureMiddleware(
		func(s user.Settings) bool { return s.MindmapEnabled },
		"Mindmap generation is disabled in your settings",
	)
	suggestionsOn := aiFeatureMiddleware(
		func(s user.Settings) bool { return s.SuggestionsEnabled },
		"AI suggestions are disabled in your settings",
	)

	ag := g.Group("/ai", jwt, protect)

	// generators
	ag.POST("/mindmap", api.generateMindmap, mindmapOn)
	ag.POST("/test", api.generateTest, aiOn)
	ag.POST("/guide", api.guide, aiOn)
	ag.POST("/suggestions", api.suggestions, suggestionsOn)
	ag.POST("/extract-tags", api.extractTags, aiOn)
	ag.POST("/auto-tag-chapter", api.autoTagChapter, aiOn)

	// saved results
	ag.GET("/mindmap/:chapterId", api.retrieveMindmap)
	ag.GET("/tests/:chapterId", api.queryTests)
	ag.PUT("/tests/:testId/questions/:questionIndex", api.setQuestionCompleted)
}

type (
	ChapterRequest struct {
		ChapterID string `json:"chapterId" validate:"required"`
	}

	QuestionRequest struct {
		QuestionID string `json:"questionId" validate:"required"`
	}

	CompletionRequest struct {
		IsCompleted bool `json:"isCompleted"`
	}
)

func (cr *ChapterRequest) Validate(validate *validator.Validate) error {
	cr.ChapterID = core.CleanString(cr.ChapterID)
	return validate.Struct(cr)
}

func (qr *QuestionRequest) Validate(validate *validator.Validate) error {
	qr.QuestionID = core.CleanString(qr.QuestionID)
	return validate.Struct(qr)
}

func (api *aiApi) bindChapter(ctx echo.Context) (ChapterRequest, error) {
	var data ChapterRequest
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to ChapterRequest")
	}
	return data, data.Validate(api.validate)
}

func (api *aiApi) generateMindmap(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	data, err := api.bindChapter(ctx)
	if err != nil {
		return err
	}

	m, err := api.svc.GenerateMindmap(ctx.Request().Context(), data.ChapterID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "generating mindmap")
	}
	return respond(ctx, http.StatusCreated, m)
}

func (api *aiApi) retrieveMindmap(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	m, err := api.practice.GetMindmap(ctx.Request().Context(), ctx.Param("chapterId"), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting mindmap")
	}
	return respond(ctx, http.StatusOK, m)
}

func (api *aiApi) generateTest(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data ai.TestRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TestRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.GenerateTest(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "generating test")
	}
	return respond(ctx, http.StatusCreated, t)
}

func (api *aiApi) queryTests(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	tests, err := api.practice.QueryTests(ctx.Request().Context(), ctx.Param("chapterId"), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying tests")
	}
	if tests == nil {
		tests = []practice.Test{}
	}
	return respondList(ctx, tests, len(tests))
}

func (api *aiApi) setQuestionCompleted(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(ctx.Param("questionIndex"))
	if err != nil {
		return practice.ErrInvalidQuestionIndex
	}
	var data CompletionRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompletionRequest")
	}

	t, err := api.practice.SetQuestionCompleted(ctx.Request().Context(), ctx.Param("testId"), usr.ID, index, data.IsCompleted)
	if err != nil {
		return errors.Wrap(err, "updating test progress")
	}
	return respond(ctx, http.StatusOK, t)
}

func (api *aiApi) guide(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data ai.GuideRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GuideRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	answer, err := api.svc.Guide(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "answering guide query")
	}
	return respond(ctx, http.StatusOK, answer)
}

func (api *aiApi) suggestions(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	data, err := api.bindChapter(ctx)
	if err != nil {
		return err
	}

	sugg, err := api.svc.Suggestions(ctx.Request().Context(), data.ChapterID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting suggestions")
	}
	return respond(ctx, http.StatusOK, sugg)
}

func (api *aiApi) extractTags(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data QuestionRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.ExtractTags(ctx.Request().Context(), data.QuestionID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "extracting tags")
	}
	return respond(ctx, http.StatusOK, echo.Map{"questionId": res.QuestionID, "tags": res.Tags})
}

func (api *aiApi) autoTagChapter(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	data, err := api.bindChapter(ctx)
	if err != nil {
		return err
	}

	report, err := api.svc.AutoTagChapter(ctx.Request().Context(), data.ChapterID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "auto-tagging chapter")
	}
	return respond(ctx, http.StatusOK, report)
}
