package routes

import (
	"weld_quote/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathEstimates = "/estimates"
	PathQuotes    = "/quotes"
)

func addQuoteRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler) {
	estimates := rg.Group(PathEstimates)
	{
		estimates.POST("", quoteHandler.Estimate)
	}

	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", quoteHandler.CreateQuote)
		quotes.GET("", quoteHandler.ListQuotes)
		// Operator export; static segment wins over :id.
		quotes.GET("/export", quoteHandler.ExportQuotes)
		quotes.GET("/:id", quoteHandler.GetQuote)
		quotes.PATCH("/:id/order", quoteHandler.ConfirmOrder)
		quotes.PATCH("/:id/status", quoteHandler.UpdateStatus)
	}
}
