//go:build wireinject
// +build wireinject

package di

import (
	"meetroom/config"
	"meetroom/infras/jwt"
	"meetroom/infras/kafka"
	"meetroom/infras/otel"
	"meetroom/infras/postgres"
	"meetroom/infras/redis"
	"meetroom/infras/s3"
	"meetroom/internal/notification"
	"meetroom/internal/scheduler"
	"meetroom/permissions"
	"meetroom/shared/cache"
	"meetroom/transport/http"
	"meetroom/transport/http/middleware"
	"meetroom/transport/http/router"

	authService "meetroom/internal/domains/auth/service"
	bookingRepository "meetroom/internal/domains/booking/repository"
	bookingService "meetroom/internal/domains/booking/service"
	roomRepository "meetroom/internal/domains/room/repository"
	roomService "meetroom/internal/domains/room/service"
	userRepository "meetroom/internal/domains/user/repository"
	authHandler "meetroom/internal/handlers/auth"
	bookingHandler "meetroom/internal/handlers/booking"
	roomHandler "meetroom/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var events = wire.NewSet(
	notification.New,
	scheduler.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	authDomain,
	roomDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		events,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
