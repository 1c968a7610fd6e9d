package http

import (
	"github.com/school-api/internal/infrastructure/dynamo"
	"github.com/school-api/internal/infrastructure/fcm"
	jwtinfra "github.com/school-api/internal/infrastructure/jwt"
	"github.com/school-api/internal/infrastructure/postgres"
	s3infra "github.com/school-api/internal/infrastructure/s3"
	"github.com/school-api/internal/infrastructure/sns"
	"github.com/school-api/internal/transport/http/handler"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Users      *postgres.UserRepo
	Circulars  *postgres.CircularRepo
	ReadStates *postgres.ReadStateRepo
	Feed       *postgres.FeedRepo
	Devices    *postgres.DeviceRepo
	Pages      *postgres.PageRepo
	Alerts     *postgres.AlertRepo
	Transactor *postgres.Transactor

	VerificationRepo *dynamo.VerificationRepo
	S3Store          *s3infra.Store
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
	Push             *fcm.Gateway

	// DB backs the readiness probe. Nil reports ready unconditionally.
	DB handler.Pinger
}
