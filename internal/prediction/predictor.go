package prediction

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/soccer-predictor/internal/metrics"
	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/ratings"
)

// RatingSource supplies authoritative ELO values from an upstream
// backend. The predictor falls back to the local estimator when the
// source is unavailable.
type RatingSource interface {
	FetchElo(ctx context.Context, team string) (float64, error)
}

// FormSource supplies a team's most recent played matches, newest
// first. The match repository satisfies this.
type FormSource interface {
	ListRecentForTeam(ctx context.Context, team string, limit int) ([]models.Match, error)
}

// formWindow is how many recent results feed the form modifier.
const formWindow = 5

// Request identifies the match to predict. Leagues are optional; when
// given they feed the cross-league strength coefficients.
type Request struct {
	HomeTeam   string
	AwayTeam   string
	HomeLeague string
	AwayLeague string
}

// Predictor is the match prediction service. It resolves team
// strengths, derives the outcome distribution and expected goals, and
// decorates the result with the Poisson scoreline extras.
type Predictor struct {
	cfg             ratings.Config
	estimator       *ratings.Estimator
	calc            *Calculator
	poisson         *PoissonModel
	cache           *Cache
	upstream        RatingSource
	forms           FormSource
	upstreamTimeout time.Duration
	scorelineCount  int
	logger          *logrus.Logger
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithUpstream attaches an authoritative rating source.
func WithUpstream(src RatingSource) Option {
	return func(p *Predictor) { p.upstream = src }
}

// WithCache attaches a prediction cache.
func WithCache(c *Cache) Option {
	return func(p *Predictor) { p.cache = c }
}

// WithFormSource attaches stored match history so the form modifier is
// computed from real recent results. Without one, or for teams with no
// played matches on record, the synthetic modifier stands in.
func WithFormSource(src FormSource) Option {
	return func(p *Predictor) { p.forms = src }
}

// WithUpstreamTimeout bounds each upstream rating fetch.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(p *Predictor) {
		if d > 0 {
			p.upstreamTimeout = d
		}
	}
}

// WithScorelineCount sets how many most-likely scorelines a prediction
// carries.
func WithScorelineCount(n int) Option {
	return func(p *Predictor) {
		if n > 0 {
			p.scorelineCount = n
		}
	}
}

// NewPredictor creates the prediction service.
func NewPredictor(cfg ratings.Config, logger *logrus.Logger, opts ...Option) *Predictor {
	p := &Predictor{
		cfg:             cfg,
		estimator:       ratings.NewEstimator(cfg),
		calc:            &Calculator{HomeAdvantage: cfg.HomeAdvantage},
		poisson:         NewPoissonModel(),
		upstreamTimeout: 3 * time.Second,
		scorelineCount:  5,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict produces a full match prediction. Requests with missing or
// identical team names are rejected before any computation; everything
// past validation is total and cannot fail.
func (p *Predictor) Predict(ctx context.Context, req Request) (*models.MatchPrediction, error) {
	home := strings.TrimSpace(req.HomeTeam)
	away := strings.TrimSpace(req.AwayTeam)
	if home == "" || away == "" {
		return nil, models.ErrTeamNameRequired
	}
	if strings.EqualFold(home, away) {
		return nil, models.ErrSameTeam
	}

	key := CacheKey{HomeTeam: home, AwayTeam: away, HomeLeague: req.HomeLeague, AwayLeague: req.AwayLeague}
	if p.cache != nil {
		if cached := p.cache.Get(key); cached != nil {
			metrics.PredictionCacheHitsTotal.Inc()
			return cached, nil
		}
		metrics.PredictionCacheMissesTotal.Inc()
	}

	start := time.Now()
	defer func() {
		metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	}()

	homeRating := p.resolveRating(ctx, home, req.HomeLeague)
	awayRating := p.resolveRating(ctx, away, req.AwayLeague)

	diff := p.calc.EffectiveDiff(
		homeRating.LeagueAdjustedRating, awayRating.LeagueAdjustedRating,
		homeRating.FormModifier, awayRating.FormModifier,
	)

	probabilities := p.calc.OutcomeFromDiff(diff)
	goals := ExpectedGoals(diff)
	matrix := p.poisson.ScoreMatrix(goals.HomeGoals, goals.AwayGoals)

	pred := &models.MatchPrediction{
		HomeTeam:      home,
		AwayTeam:      away,
		HomeLeague:    req.HomeLeague,
		AwayLeague:    req.AwayLeague,
		HomeRating:    homeRating.LeagueAdjustedRating,
		AwayRating:    awayRating.LeagueAdjustedRating,
		Probabilities: probabilities,
		Goals:         goals,
		ConfidencePct: Confidence(probabilities),
		Odds:          probabilities.FairOdds(),
		Scorelines:    matrix.MostLikelyScores(p.scorelineCount),
		OverUnder: map[string]float64{
			"over_1_5": matrix.OverGoalsProb(1.5),
			"over_2_5": matrix.OverGoalsProb(2.5),
			"over_3_5": matrix.OverGoalsProb(3.5),
		},
		BTTSProb: matrix.BTTSProb(),
	}

	if p.cache != nil {
		p.cache.Set(key, pred)
	}
	metrics.PredictionsTotal.Inc()

	return pred, nil
}

// resolveRating prefers the upstream authoritative ELO and falls back
// to the local estimator, using stored recent results for the form
// modifier when the team has any.
func (p *Predictor) resolveRating(ctx context.Context, team, league string) ratings.TeamRating {
	if p.upstream != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, p.upstreamTimeout)
		defer cancel()

		elo, err := p.upstream.FetchElo(fetchCtx, team)
		if err == nil {
			coef := 1.0
			if league != "" {
				coef = p.cfg.LeagueCoefficient(league)
			}
			return ratings.TeamRating{
				TeamName:             team,
				BaseRating:           elo,
				LeagueAdjustedRating: elo * coef,
			}
		}
		metrics.UpstreamFailuresTotal.Inc()
		p.logger.WithError(err).WithField("team", team).
			Warn("Upstream rating fetch failed, using local estimate")
	}
	if recent := p.recentForm(ctx, team); len(recent) > 0 {
		return p.estimator.EstimateWithForm(team, league, recent)
	}
	return p.estimator.Estimate(team, league, true)
}

// recentForm loads the team's latest played matches and folds them into
// outcomes from that team's perspective. Any failure or empty history
// returns nil, which drops the caller back to the synthetic modifier.
func (p *Predictor) recentForm(ctx context.Context, team string) []models.Outcome {
	if p.forms == nil {
		return nil
	}

	matches, err := p.forms.ListRecentForTeam(ctx, team, formWindow)
	if err != nil {
		p.logger.WithError(err).WithField("team", team).
			Debug("Recent form lookup failed, using synthetic modifier")
		return nil
	}

	outcomes := make([]models.Outcome, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		if !m.IsPlayed() {
			continue
		}
		if strings.EqualFold(m.HomeTeam, team) {
			outcomes = append(outcomes, m.HomeOutcome())
		} else {
			outcomes = append(outcomes, m.AwayOutcome())
		}
	}
	return outcomes
}
