package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/localdocs/logger"
	"github.com/meghashyamc/localdocs/services/fetch"
)

// An empty id never reaches the handler: gin does not match /documents/:id
// without a segment.
type FetchRequest struct {
	ID string `uri:"id" json:"id"`
}

func SetupFetch(router gin.IRouter, logger logger.Logger, service *fetch.Service) {
	router.GET("/documents/:id", handleFetch(service, logger))
}

func handleFetch(service *fetch.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := FetchRequest{}
		if err := c.ShouldBindUri(&request); err != nil {
			logger.Warn("could not extract document id from request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract document id"})
			return
		}

		result := service.Fetch(request.ID)
		if !result.Found() {
			writeResponse(c, nil, http.StatusNotFound, []string{result.Error})
			return
		}

		writeResponse(c, result.Document, http.StatusOK, nil)
	}
}
