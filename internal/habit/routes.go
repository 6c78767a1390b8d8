package habit

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateHabit)
	r.Get("/", h.ListHabits)
	r.Get("/today", h.Today)
	r.Get("/calendar", h.Calendar)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetHabit)
		r.Put("/", h.UpdateHabit)
		r.Delete("/", h.DeleteHabit)
		r.Patch("/pause", h.PauseHabit)
		r.Patch("/resume", h.ResumeHabit)
		r.Get("/history", h.History)
		r.Put("/completions/{date}", h.SetHabitCompletion)
		r.Post("/sub-habits", h.CreateSubHabit)
	})

	return r
}

func SubHabitRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Put("/{id}", h.UpdateSubHabit)
	r.Delete("/{id}", h.DeleteSubHabit)
	r.Put("/{id}/completions/{date}", h.SetSubHabitCompletion)

	return r
}
