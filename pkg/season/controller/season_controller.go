package controller

import "github.com/labstack/echo/v4"

type SeasonController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	AddStage(c echo.Context) error
	Edit(c echo.Context) error

	Create(c echo.Context) error
	Find(c echo.Context) error
	Update(c echo.Context) error
}
