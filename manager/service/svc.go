package service

import (
	"crypto/rsa"
	"fmt"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/Gthulhu/erp/config"
	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Params struct {
	fx.In
	Repo       domain.Repository
	KeyConfig  config.KeyConfig
	AuthConfig config.AuthConfig
	// Matrix defaults to domain.DefaultMatrix.
	Matrix *domain.Matrix `optional:"true"`
	// Registerer defaults to a private registry.
	Registerer prometheus.Registerer `optional:"true"`
}

func NewService(params Params) (domain.Service, error) {
	return newService(params)
}

func newService(params Params) (*Service, error) {
	jwtPrivateKey, err := util.InitRSAPrivateKey(params.KeyConfig.RsaPrivateKeyPem.Value())
	if err != nil {
		return nil, fmt.Errorf("initialize RSA private key: %w", err)
	}

	matrix := params.Matrix
	if matrix == nil {
		matrix = domain.DefaultMatrix()
	}
	registerer := params.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	svc := &Service{
		Repo:          params.Repo,
		matrix:        matrix,
		jwtPrivateKey: jwtPrivateKey,
		authCfg:       params.AuthConfig,
		sessions:      cache.New[string, sessionState](),
		revoked:       util.NewGenericMap[string, time.Time](),
		metrics:       m,
		now:           time.Now,
	}
	return svc, nil
}

type Service struct {
	Repo          domain.Repository
	matrix        *domain.Matrix
	jwtPrivateKey *rsa.PrivateKey
	authCfg       config.AuthConfig
	// sessions caches the stored role and status per user id.
	sessions *cache.Cache[string, sessionState]
	// revoked maps a logged out token id to its expiry.
	revoked *util.GenericMap[string, time.Time]
	metrics *metrics
	now     func() time.Time
}

type sessionState struct {
	role   domain.Role
	status domain.UserStatus
}

func (svc *Service) Matrix() *domain.Matrix {
	return svc.matrix
}
