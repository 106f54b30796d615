package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core/attendance"
)

type attendanceApi struct {
	svc      attendance.ServiceInterface
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, svc attendance.ServiceInterface, validate *validator.Validate) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/attendance")
	ag.GET("", api.query)
	ag.POST("", api.create)
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	recs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) create(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating attendance record")
	}
	return ctx.JSON(http.StatusCreated, rec)
}
