package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Feedback and reputation
	s.echo.POST("/api/feedback", s.handleSubmitFeedback)
	s.echo.GET("/api/tutors/:id/reputation", s.handleGetReputation)
	s.echo.GET("/api/recommendations", s.handleRecommendations)

	// Points ledger
	s.echo.POST("/api/points", s.handleAwardPoints)
	s.echo.GET("/api/users/:id/balance", s.handleBalance)
	s.echo.GET("/api/users/:id/points", s.handlePointsHistory)

	// Rewards and redemptions
	s.echo.GET("/api/rewards", s.handleListRewards)
	s.echo.POST("/api/redemptions", s.handleRedeem)
	s.echo.GET("/api/users/:id/vouchers", s.handleVouchers)
	s.echo.POST("/api/vouchers/:code/use", s.handleUseVoucher)
}
