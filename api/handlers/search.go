package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/localdocs/logger"
	"github.com/meghashyamc/localdocs/services/search"
)

type SearchRequest struct {
	Query string `form:"query"`
}

type SearchResponse struct {
	Results []search.Result `json:"results"`
}

func SetupSearch(router gin.IRouter, logger logger.Logger, service *search.Service) {
	router.GET("/search", handleSearch(service, logger))
}

func handleSearch(service *search.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		searchResponse := SearchResponse{
			Results: service.Search(request.Query),
		}

		writeResponse(c, searchResponse, http.StatusOK, nil)
	}
}
