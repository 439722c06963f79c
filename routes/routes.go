package routes

import (
	"github.com/covedrive/cricket-club/handlers"
	"github.com/covedrive/cricket-club/middleware"
	"github.com/covedrive/cricket-club/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	teamHandler *handlers.TeamHandler,
	matchHandler *handlers.MatchHandler,
	contributionHandler *handlers.ContributionHandler,
	expenseHandler *handlers.ExpenseHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.ListPlayers)
			r.Get("/{playerID}", playerHandler.GetPlayerByID)
			r.Get("/{playerID}/balance", playerHandler.GetBalance)
			r.Get("/{playerID}/history", playerHandler.GetHistory)
			r.Get("/{playerID}/contributions", contributionHandler.ListContributionsByPlayer)
			r.Put("/{playerID}", playerHandler.UpdateProfile)
			r.Post("/{playerID}/photo", playerHandler.UploadPhoto)

			r.With(adminOnly).Delete("/{playerID}", playerHandler.DeletePlayer)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.ListTeams)
			r.Get("/{teamID}", teamHandler.GetTeamByID)
			r.Get("/{teamID}/members", teamHandler.ListMembers)
			r.Get("/{teamID}/matches", matchHandler.ListMatchesByTeam)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Post("/", teamHandler.CreateTeam)
				r.Put("/{teamID}", teamHandler.UpdateTeam)
				r.Delete("/{teamID}", teamHandler.DeleteTeam)
				r.Post("/{teamID}/members/{playerID}", teamHandler.AddMember)
				r.Delete("/{teamID}/members/{playerID}", teamHandler.RemoveMember)
				r.Post("/{teamID}/logo", teamHandler.UploadLogo)
				r.Get("/{teamID}/financials", teamHandler.GetFinancials)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.ListMatches)
			r.Get("/{matchID}", matchHandler.GetMatchByID)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Post("/", matchHandler.CreateMatch)
				r.Put("/{matchID}", matchHandler.UpdateMatch)
				r.Delete("/{matchID}", matchHandler.DeleteMatch)
				r.Post("/{matchID}/participants/{playerID}", matchHandler.AddParticipant)
				r.Delete("/{matchID}/participants/{playerID}", matchHandler.RemoveParticipant)
				r.Patch("/{matchID}/participants/{playerID}", matchHandler.SetPayingStatus)
			})
		})

		r.Route("/contributions", func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/", contributionHandler.CreateContribution)
			r.Get("/", contributionHandler.ListContributions)
			r.Delete("/{contributionID}", contributionHandler.DeleteContribution)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/", expenseHandler.CreateExpense)
			r.Get("/", expenseHandler.ListExpenses)
			r.Delete("/{expenseID}", expenseHandler.DeleteExpense)
		})

		r.With(adminOnly).Get("/dashboard", dashboardHandler.GetOrganizationSummary)
	})
}
