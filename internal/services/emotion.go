package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moodwatch/moodwatch-backend/internal/alerting"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

const (
	defaultIntensity     = 5
	analyticsWindowDays  = 30
	analyticsRecentDays  = 7
	analyticsRecentLimit = 10
)

type emotionMix struct {
	sadness, anger, fear, happy float64
}

// emotionTable maps the manual survey's emotion names onto percentages.
var emotionTable = map[string]emotionMix{
	"Happy":    {0, 0, 0, 100},
	"Sad":      {85, 5, 10, 0},
	"Anxious":  {20, 10, 70, 0},
	"Angry":    {5, 85, 10, 0},
	"Calm":     {0, 0, 0, 100},
	"Stressed": {25, 35, 40, 0},
	"Excited":  {0, 0, 5, 95},
	"Tired":    {60, 5, 10, 25},
}

var unknownEmotion = emotionMix{25, 25, 25, 25}

// EmotionScores is the detector form; nil means the field was absent.
type EmotionScores struct {
	Sadness    *float64
	Anger      *float64
	Fear       *float64
	Happy      *float64
	Engagement *float64
}

// EmotionInput carries exactly one of Scores or Names.
type EmotionInput struct {
	UserID    uuid.UUID
	Scores    *EmotionScores
	Names     []string
	Intensity *float64
	Notes     string
	Source    string
}

type EmotionReading struct {
	Time       time.Time `json:"time"`
	Sadness    float64   `json:"sadness"`
	Anger      float64   `json:"anger"`
	Fear       float64   `json:"fear"`
	Happy      float64   `json:"happy"`
	Engagement float64   `json:"engagement"`
	MoodScore  int       `json:"moodScore"`
	Notes      string    `json:"notes"`
}

type EmotionDay struct {
	Date               time.Time        `json:"date"`
	Sadness            int              `json:"sadness"`
	Anger              int              `json:"anger"`
	Fear               int              `json:"fear"`
	Happy              int              `json:"happy"`
	Engagement         int              `json:"engagement"`
	MoodScore          int              `json:"moodScore"`
	Source             string           `json:"source"`
	Notes              string           `json:"notes"`
	ReadingsCount      int              `json:"readingsCount"`
	IndividualReadings []EmotionReading `json:"individualReadings"`
}

type EmotionSummary struct {
	Count         int `json:"count"`
	AvgSadness    int `json:"avgSadness"`
	AvgAnger      int `json:"avgAnger"`
	AvgFear       int `json:"avgFear"`
	AvgHappy      int `json:"avgHappy"`
	AvgEngagement int `json:"avgEngagement"`
	AvgMoodScore  int `json:"avgMoodScore"`
}

type EmotionAnalytics struct {
	Last7Days     EmotionSummary `json:"last7Days"`
	Last30Days    EmotionSummary `json:"last30Days"`
	RecentEntries []EmotionDay   `json:"recentEntries"`
	BySource      map[string]int `json:"bySource"`
}

type EmotionService interface {
	// Record stores one sample and queues the emotion alert evaluation.
	Record(ctx context.Context, in EmotionInput) (*types.EmotionSample, error)
	Analytics(ctx context.Context, userID uuid.UUID) (*EmotionAnalytics, error)
}

type emotionService struct {
	log     *logger.Logger
	samples repos.EmotionSampleRepo
	jobs    JobEnqueuer
	now     func() time.Time
}

func NewEmotionService(log *logger.Logger, samples repos.EmotionSampleRepo, jobs JobEnqueuer) EmotionService {
	serviceLog := log.With("service", "EmotionService")
	return &emotionService{log: serviceLog, samples: samples, jobs: jobs, now: utcNow}
}

// jsRound rounds halves up, matching the clients that display these numbers.
func jsRound(v float64) float64 {
	return math.Floor(v + 0.5)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// sampleFromNames averages the named mixes, normalizes them to 100, applies
// the intensity factor and renormalizes.
func sampleFromNames(names []string, intensity *float64) types.EmotionSample {
	var sum emotionMix
	for _, name := range names {
		m, ok := emotionTable[name]
		if !ok {
			m = unknownEmotion
		}
		sum.sadness += m.sadness
		sum.anger += m.anger
		sum.fear += m.fear
		sum.happy += m.happy
	}
	count := float64(len(names))
	if count == 0 {
		count = 1
	}
	avg := emotionMix{sum.sadness / count, sum.anger / count, sum.fear / count, sum.happy / count}
	if total := avg.sadness + avg.anger + avg.fear + avg.happy; total > 0 {
		avg = emotionMix{avg.sadness / total * 100, avg.anger / total * 100, avg.fear / total * 100, avg.happy / total * 100}
	}

	level := float64(defaultIntensity)
	if intensity != nil && *intensity > 0 && !math.IsNaN(*intensity) && !math.IsInf(*intensity, 0) {
		level = *intensity
	}
	factor := level / defaultIntensity
	scaled := emotionMix{avg.sadness * factor, avg.anger * factor, avg.fear * factor, avg.happy * factor}
	if total := scaled.sadness + scaled.anger + scaled.fear + scaled.happy; total > 0 {
		scaled = emotionMix{
			jsRound(scaled.sadness / total * 100),
			jsRound(scaled.anger / total * 100),
			jsRound(scaled.fear / total * 100),
			jsRound(scaled.happy / total * 100),
		}
	}

	engagement := clamp(jsRound((scaled.happy*2+(100-scaled.sadness-scaled.fear))/3), 0, 100)
	return types.EmotionSample{
		Sadness:    scaled.sadness,
		Anger:      scaled.anger,
		Fear:       scaled.fear,
		Happy:      scaled.happy,
		Engagement: engagement,
	}
}

func percent(key string, v *float64, required bool) (float64, error) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		if required {
			return 0, errs.Newf(errs.ErrInvalidArgument, "%s is required", key)
		}
		return 0, nil
	}
	if *v < 0 || *v > 100 {
		return 0, errs.Newf(errs.ErrInvalidArgument, "%s must be between 0 and 100", key)
	}
	return *v, nil
}

func sampleFromScores(in *EmotionScores) (types.EmotionSample, error) {
	var out types.EmotionSample
	var err error
	if out.Sadness, err = percent("sadness", in.Sadness, true); err != nil {
		return out, err
	}
	if out.Anger, err = percent("anger", in.Anger, true); err != nil {
		return out, err
	}
	if out.Fear, err = percent("fear", in.Fear, true); err != nil {
		return out, err
	}
	if out.Engagement, err = percent("engagement", in.Engagement, true); err != nil {
		return out, err
	}
	if out.Happy, err = percent("happy", in.Happy, false); err != nil {
		return out, err
	}
	return out, nil
}

func (s *emotionService) Record(ctx context.Context, in EmotionInput) (*types.EmotionSample, error) {
	if in.UserID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}

	var sample types.EmotionSample
	source := strings.TrimSpace(in.Source)
	switch {
	case in.Names != nil:
		sample = sampleFromNames(in.Names, in.Intensity)
		if source == "" {
			source = signals.SourceManualSurvey
		}
	case in.Scores != nil:
		var err error
		if sample, err = sampleFromScores(in.Scores); err != nil {
			return nil, err
		}
		if source == "" {
			source = signals.SourceAffectiva
		}
	default:
		return nil, errs.Newf(errs.ErrInvalidArgument, "emotions payload is required")
	}

	sample.UserID = in.UserID
	sample.MoodScore = alerting.ComputeMoodScore(sample.Sadness, sample.Fear)
	sample.Source = source
	sample.Notes = strings.TrimSpace(in.Notes)
	sample.CreatedAt = s.now()

	out, err := s.samples.Create(dbctx.Context{Ctx: ctx}, []*types.EmotionSample{&sample})
	if err != nil {
		return nil, fmt.Errorf("create emotion sample: %w", err)
	}

	if err := s.jobs.Enqueue(ctx, domainJobs.TypeEmotionAlertEvaluate, in.UserID, "emotion_sample"); err != nil {
		s.log.Warn("Emotion alert evaluation not queued",
			"user_id", in.UserID.String(),
			"error", err,
		)
	}
	return out[0], nil
}

func (s *emotionService) Analytics(ctx context.Context, userID uuid.UUID) (*EmotionAnalytics, error) {
	if userID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	now := s.now()
	rows, err := s.samples.ListSince(dbctx.Context{Ctx: ctx}, userID, now.AddDate(0, 0, -analyticsWindowDays))
	if err != nil {
		return nil, fmt.Errorf("load emotion samples: %w", err)
	}

	days := groupByDay(rows)
	recentCutoff := now.AddDate(0, 0, -analyticsRecentDays)
	var last7 []EmotionDay
	for _, d := range days {
		if !d.Date.Before(recentCutoff) {
			last7 = append(last7, d)
		}
	}

	bySource := make(map[string]int)
	for _, r := range rows {
		src := r.Source
		if src == "" {
			src = signals.SourceAffectiva
		}
		bySource[src]++
	}

	recent := days
	if len(recent) > analyticsRecentLimit {
		recent = recent[:analyticsRecentLimit]
	}
	return &EmotionAnalytics{
		Last7Days:     summarize(last7),
		Last30Days:    summarize(days),
		RecentEntries: recent,
		BySource:      bySource,
	}, nil
}

// groupByDay averages samples per UTC calendar day, newest day first.
func groupByDay(rows []*types.EmotionSample) []EmotionDay {
	buckets := make(map[string][]*types.EmotionSample)
	for _, r := range rows {
		key := r.CreatedAt.UTC().Format(time.DateOnly)
		buckets[key] = append(buckets[key], r)
	}

	days := make([]EmotionDay, 0, len(buckets))
	for _, recs := range buckets {
		n := float64(len(recs))
		var sad, ang, fear, happy, eng, mood float64
		var notes []string
		readings := make([]EmotionReading, 0, len(recs))
		latest := recs[0].CreatedAt
		for _, r := range recs {
			sad += r.Sadness
			ang += r.Anger
			fear += r.Fear
			happy += r.Happy
			eng += r.Engagement
			mood += float64(r.MoodScore)
			if r.Notes != "" {
				notes = append(notes, r.Notes)
			}
			if r.CreatedAt.After(latest) {
				latest = r.CreatedAt
			}
			readings = append(readings, EmotionReading{
				Time:       r.CreatedAt.UTC(),
				Sadness:    r.Sadness,
				Anger:      r.Anger,
				Fear:       r.Fear,
				Happy:      r.Happy,
				Engagement: r.Engagement,
				MoodScore:  r.MoodScore,
				Notes:      r.Notes,
			})
		}
		sort.SliceStable(readings, func(i, j int) bool { return readings[i].Time.After(readings[j].Time) })

		label := strconv.Itoa(len(recs)) + " check-in"
		if len(recs) > 1 {
			label += "s"
		}
		days = append(days, EmotionDay{
			Date:               latest.UTC(),
			Sadness:            int(jsRound(sad / n)),
			Anger:              int(jsRound(ang / n)),
			Fear:               int(jsRound(fear / n)),
			Happy:              int(jsRound(happy / n)),
			Engagement:         int(jsRound(eng / n)),
			MoodScore:          int(jsRound(mood / n)),
			Source:             label,
			Notes:              strings.Join(notes, "; "),
			ReadingsCount:      len(recs),
			IndividualReadings: readings,
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.After(days[j].Date) })
	return days
}

func summarize(days []EmotionDay) EmotionSummary {
	out := EmotionSummary{Count: len(days)}
	if len(days) == 0 {
		return out
	}
	var sad, ang, fear, happy, eng, mood int
	for _, d := range days {
		sad += d.Sadness
		ang += d.Anger
		fear += d.Fear
		happy += d.Happy
		eng += d.Engagement
		mood += d.MoodScore
	}
	n := float64(len(days))
	avg := func(total int) int { return int(jsRound(float64(total) / n)) }
	out.AvgSadness = avg(sad)
	out.AvgAnger = avg(ang)
	out.AvgFear = avg(fear)
	out.AvgHappy = avg(happy)
	out.AvgEngagement = avg(eng)
	out.AvgMoodScore = avg(mood)
	return out
}
