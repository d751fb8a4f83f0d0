package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/Shobuki/gfchristmastwebsite/config"
	"github.com/Shobuki/gfchristmastwebsite/media"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

// Deps bundles everything the API routes need.
type Deps struct {
	Cfg      config.Config
	Admins   repository.AdminRepository
	Sessions repository.SessionRepository
	Pictures repository.PictureRepository
	Gacha    repository.GachaRepository
	Journey  repository.JourneyRepository
	Settings repository.SettingsRepository
	Store    media.Store
}

// Register mounts the full /api surface on r. Mutation endpoints require the
// admin principal; viewer-facing endpoints also accept the shared public
// token.
func Register(r chi.Router, deps Deps) {
	authorizer := &Authorizer{Sessions: deps.Sessions, PublicToken: deps.Cfg.PublicToken}

	authHandler := NewAuthHandler(deps.Admins, deps.Sessions, deps.Cfg.SessionDays)
	pictureHandler := &PictureHandler{Pictures: deps.Pictures, Store: deps.Store, Cfg: deps.Cfg}
	gachaHandler := &GachaHandler{Gacha: deps.Gacha, Admins: deps.Admins, StartingCoins: deps.Cfg.StartingCoins}
	journeyHandler := &JourneyHandler{Journey: deps.Journey, Store: deps.Store, Cfg: deps.Cfg}
	adminHandler := &AdminHandler{Admins: deps.Admins}
	settingsHandler := &SettingsHandler{Settings: deps.Settings}
	loveRadarHandler := &LoveRadarHandler{Settings: deps.Settings}
	fileHandler := &FileHandler{Pictures: deps.Pictures, Store: deps.Store}
	storageHandler := &StorageHandler{Pictures: deps.Pictures, Journey: deps.Journey, Store: deps.Store}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authorizer.AllowPublic)
			r.Get("/pictures", pictureHandler.ListPictures)
			r.Post("/pictures", pictureHandler.UploadPicture)
			r.Get("/gacha-items", gachaHandler.ListItems)
			r.Get("/gacha-rarity", gachaHandler.ListRaritySettings)
			r.Get("/gacha-state", gachaHandler.GetState)
			r.Post("/gacha-state", gachaHandler.UpdateState)
			r.Get("/gacha-results", gachaHandler.ListResults)
			r.Post("/gacha-results", gachaHandler.AddResult)
			r.Get("/journey", journeyHandler.ListItems)
			r.Get("/journey/files/{id}", journeyHandler.ServeFile)
			r.Get("/cosmic", settingsHandler.GetCosmic)
			r.Get("/layout", settingsHandler.GetLayout)
			r.Get("/letter", settingsHandler.GetLetter)
			r.Post("/love-radar", loveRadarHandler.Log)
			r.Get("/files/{id}", fileHandler.ServePicture)
			r.Get("/files/{id}/thumbnail", fileHandler.ServeThumbnail)
		})

		r.Group(func(r chi.Router) {
			r.Use(authorizer.RequireAdmin)
			r.Delete("/pictures", pictureHandler.DeletePicture)
			r.Post("/pictures/assign", pictureHandler.AssignPicture)
			r.Post("/gacha-items", gachaHandler.SaveItem)
			r.Delete("/gacha-items", gachaHandler.DeleteItem)
			r.Post("/gacha-rarity", gachaHandler.UpsertRaritySetting)
			r.Post("/journey", journeyHandler.SaveItem)
			r.Delete("/journey", journeyHandler.DeleteItem)
			r.Get("/admins", adminHandler.ListAdmins)
			r.Post("/admins", adminHandler.CreateAdmin)
			r.Delete("/admins", adminHandler.DeleteAdmin)
			r.Post("/cosmic", settingsHandler.UpdateCosmic)
			r.Post("/layout", settingsHandler.UpdateLayout)
			r.Post("/letter", settingsHandler.UpdateLetter)
			r.Get("/storage/orphans", storageHandler.ListOrphans)
		})
	})
}
