package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/youssefadel/eduplatform-backend/api/controllers"
	"github.com/youssefadel/eduplatform-backend/api/middleware"
	activitysvc "github.com/youssefadel/eduplatform-backend/internal/activity"
	authsvc "github.com/youssefadel/eduplatform-backend/internal/auth"
	coursesvc "github.com/youssefadel/eduplatform-backend/internal/courses"
	lessonsvc "github.com/youssefadel/eduplatform-backend/internal/lessons"
	"github.com/youssefadel/eduplatform-backend/internal/notifications"
	purchasesvc "github.com/youssefadel/eduplatform-backend/internal/purchases"
	statsvc "github.com/youssefadel/eduplatform-backend/internal/stats"
	usersvc "github.com/youssefadel/eduplatform-backend/internal/users"
	videosvc "github.com/youssefadel/eduplatform-backend/internal/videos"
	"github.com/youssefadel/eduplatform-backend/pkg/config"
	"github.com/youssefadel/eduplatform-backend/pkg/db"
	"github.com/youssefadel/eduplatform-backend/pkg/enums"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
	"github.com/youssefadel/eduplatform-backend/pkg/redis"
)

// Services bundles everything the router exposes over HTTP.
type Services struct {
	Auth          authsvc.Service
	Users         usersvc.Service
	Courses       coursesvc.Service
	Lessons       lessonsvc.Service
	Purchases     purchasesvc.Service
	Videos        videosvc.Service
	Notifications notifications.Service
	Activity      activitysvc.Service
	Stats         statsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	// Public catalog.
	r.Route("/api/v1/courses", func(r chi.Router) {
		r.Get("/", controllers.ListCourses(svcs.Courses, logg))
		r.Get("/{courseId}", controllers.CourseDetail(svcs.Courses, logg))
		r.Get("/{courseId}/lessons", controllers.CourseLessons(svcs.Lessons, logg))
	})

	// Authenticated surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/courses/{courseId}/buy", controllers.BuyCourse(svcs.Purchases, logg))
		r.Get("/lessons/{lessonId}/watch", controllers.WatchLesson(svcs.Lessons, logg))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.UserProfile(svcs.Users, logg))
			r.Put("/", controllers.UserUpdateProfile(svcs.Users, logg))
			r.Post("/password", controllers.UserChangePassword(svcs.Users, logg))
			r.Get("/purchases", controllers.UserPurchases(svcs.Purchases, logg))
			r.Get("/activities", controllers.UserActivities(svcs.Activity, logg))

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.UserWishlist(svcs.Users, logg))
				r.Post("/{courseId}", controllers.UserWishlistAdd(svcs.Users, logg))
				r.Delete("/{courseId}", controllers.UserWishlistRemove(svcs.Users, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
				r.Get("/unread-count", controllers.UnreadNotificationCount(svcs.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
			})
		})
	})

	// Admin surface.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Get("/stats", controllers.AdminStats(svcs.Stats, logg))

		r.Route("/courses", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateCourse(svcs.Courses, logg))
			r.Patch("/{courseId}", controllers.AdminUpdateCourse(svcs.Courses, logg))
			r.Delete("/{courseId}", controllers.AdminDeleteCourse(svcs.Courses, logg))
			r.Post("/{courseId}/lessons", controllers.AdminCreateLesson(svcs.Lessons, logg))
		})

		r.Route("/lessons/{lessonId}", func(r chi.Router) {
			r.Patch("/", controllers.AdminUpdateLesson(svcs.Lessons, logg))
			r.Delete("/", controllers.AdminDeleteLesson(svcs.Lessons, logg))

			r.Route("/video", func(r chi.Router) {
				r.Get("/", controllers.AdminLessonVideoMetadata(svcs.Videos, logg))
				r.Post("/", controllers.AdminUploadLessonVideo(svcs.Videos, logg))
				r.Patch("/", controllers.AdminRenameLessonVideo(svcs.Videos, logg))
				r.Delete("/", controllers.AdminDeleteLessonVideo(svcs.Videos, logg))
			})
		})
	})

	return r
}
