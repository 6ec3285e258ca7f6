package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"paprika/pkg/middleware"
	"paprika/pkg/season/controller"
)

func New(
	e *echo.Echo,
	log *zap.Logger,
	seasonCtrl controller.SeasonController,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))

	e.GET("/health", healthCtrl.Health)

	api := e.Group("/api")

	// stage workflow, scoped to one farmer
	f := api.Group("/farmers/:farmer_id", middleware.FarmerScope())
	f.GET("/seasons", seasonCtrl.List)
	f.GET("/seasons/:year", seasonCtrl.Get)
	f.POST("/seasons/:year/stages", seasonCtrl.AddStage)
	f.PATCH("/seasons/:year", seasonCtrl.Edit)

	// raw season records
	api.POST("/seasons", seasonCtrl.Create)
	api.GET("/seasons/:id", seasonCtrl.Find)
	api.PUT("/seasons/:id", seasonCtrl.Update)
	return e
}
