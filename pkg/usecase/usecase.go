package usecase

import (
	"time"

	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/service/twilio"
	"github.com/secmon-lab/dinewise/pkg/service/yelp"
	"github.com/secmon-lab/dinewise/pkg/utils/metrics"
)

// DefaultProviderTimeout bounds every language model, search and telephony call
const DefaultProviderTimeout = 30 * time.Second

type UseCases struct {
	repo            interfaces.Repository
	assistant       assistant.Service
	search          yelp.Service
	caller          twilio.Service
	metrics         *metrics.Metrics
	now             func() time.Time
	providerTimeout time.Duration
	vocabulary      *model.Vocabulary
	searchDefaults  model.SearchQuery

	User        *UserUseCase
	Classify    *ClassifyUseCase
	Recommend   *RecommendUseCase
	Chat        *ChatUseCase
	Reservation *ReservationUseCase
	Favorite    *FavoriteUseCase
	Restaurant  *RestaurantUseCase
}

type Option func(*UseCases)

func WithAssistant(svc assistant.Service) Option {
	return func(uc *UseCases) {
		uc.assistant = svc
	}
}

func WithSearch(svc yelp.Service) Option {
	return func(uc *UseCases) {
		uc.search = svc
	}
}

func WithCaller(svc twilio.Service) Option {
	return func(uc *UseCases) {
		uc.caller = svc
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = m
	}
}

// WithClock replaces time.Now for message and record timestamps
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithProviderTimeout sets the per-call provider deadline. Zero disables it.
func WithProviderTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.providerTimeout = d
	}
}

func WithVocabulary(v *model.Vocabulary) Option {
	return func(uc *UseCases) {
		uc.vocabulary = v
	}
}

// WithSearchDefaults sets limit, radius and sort order applied to every search
func WithSearchDefaults(q model.SearchQuery) Option {
	return func(uc *UseCases) {
		uc.searchDefaults = q
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:            repo,
		now:             time.Now,
		providerTimeout: DefaultProviderTimeout,
		vocabulary:      model.DefaultVocabulary(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.caller == nil {
		uc.caller = twilio.NewSimulator()
	}

	p := provider{timeout: uc.providerTimeout, metrics: uc.metrics}

	uc.User = NewUserUseCase(repo, uc.now)
	uc.Restaurant = NewRestaurantUseCase(repo)
	uc.Favorite = NewFavoriteUseCase(repo)
	uc.Classify = NewClassifyUseCase(uc.assistant, p)
	uc.Recommend = NewRecommendUseCase(repo, uc.assistant, uc.search, p, uc.vocabulary, uc.searchDefaults)
	uc.Chat = NewChatUseCase(repo, uc.assistant, uc.Classify, uc.Recommend, p, uc.now)
	uc.Reservation = NewReservationUseCase(repo, uc.assistant, uc.caller, p)

	return uc
}
