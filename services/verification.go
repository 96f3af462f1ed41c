package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"questhero/config"
	"questhero/gamification"
	"questhero/geo"
	"questhero/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mutationTimeout bounds each post-decision data-store write. Mutations run
// on fresh contexts so a caller disconnect cannot cancel them mid-flight.
const mutationTimeout = 5 * time.Second

// Store is the record-store contract the verification engine consumes.
type Store interface {
	FetchQuestByID(ctx context.Context, id string) (*models.Quest, error)
	InsertSubmission(ctx context.Context, sub *models.Submission) error
	CompleteUserQuest(ctx context.Context, id string, xpEarned int, completedAt time.Time) (bool, error)
	AwardProfileXP(ctx context.Context, userID string, xp int, category string) (*models.Profile, error)
	UpdateProfileProgress(ctx context.Context, userID string, level int, title string, badges []string) error
	IncrementQuestCompletions(ctx context.Context, questID string) error
	FetchProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// VerifyRequest carries one proof submission into the engine.
type VerifyRequest struct {
	QuestID     string
	UserID      string
	UserQuestID string
	ImageURL    string
	Latitude    float64
	Longitude   float64
	// PhotoSize is the submitted photo's byte size; zero means no photo.
	PhotoSize int64
	// PhotoDataURI is the photo as a base64 data URI for classification;
	// empty when no photo was submitted.
	PhotoDataURI string
}

// VerifyResult is the engine's decision plus its evidence trail.
type VerifyResult struct {
	Verified       bool     `json:"verified"`
	Confidence     int      `json:"confidence"`
	Labels         []string `json:"labels"`
	Reasons        []string `json:"reasons"`
	LocationMatch  bool     `json:"locationMatch"`
	ObjectMatch    bool     `json:"objectMatch"`
	XPAwarded      int      `json:"xpAwarded"`
	ResponseTimeMs int64    `json:"responseTimeMs"`
}

// VerificationService decides whether a proof submission is accepted and
// applies the XP economy consequences.
type VerificationService struct {
	store      Store
	classifier Classifier
	cfg        config.Verification
	broadcast  func(models.GamificationEvent)
}

var verificationService *VerificationService

// InitVerificationService wires the package-level service instance.
func InitVerificationService(cfg config.Verification, store Store, classifier Classifier, broadcast func(models.GamificationEvent)) {
	verificationService = NewVerificationService(cfg, store, classifier, broadcast)
}

// GetVerificationService returns the package-level service instance.
func GetVerificationService() *VerificationService {
	return verificationService
}

// NewVerificationService builds a service. broadcast may be nil.
func NewVerificationService(cfg config.Verification, store Store, classifier Classifier, broadcast func(models.GamificationEvent)) *VerificationService {
	if classifier == nil {
		classifier = NoopClassifier{}
	}
	return &VerificationService{store: store, classifier: classifier, cfg: cfg, broadcast: broadcast}
}

// Verify runs the full decision pipeline for one submission: location
// check, photo evidence scoring, confidence aggregation, decision, and on
// acceptance the XP award side effects. The returned error is only non-nil
// for quest resolution failures; the decision itself always resolves.
func (s *VerificationService) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	start := time.Now()

	quest, err := s.store.FetchQuestByID(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	var (
		confidence  int
		reasons     []string
		labels      []string
		objectMatch bool
	)

	// 1. Location check. A failed check is a hard gate: no confidence
	// score overrides it.
	distance := geo.Distance(req.Latitude, req.Longitude, quest.Latitude, quest.Longitude)
	locationMatch := distance <= s.cfg.MaxDistanceMeters
	if locationMatch {
		confidence += s.cfg.LocationPoints
		reasons = append(reasons, fmt.Sprintf("✓ Location verified (%dm from quest)", roundMeters(distance)))
	} else {
		reasons = append(reasons, fmt.Sprintf("✗ Too far from quest location (%dm away)", roundMeters(distance)))
	}

	// 2. Photo evidence: classification when the adapter yields labels,
	// size heuristic otherwise.
	if req.PhotoDataURI != "" {
		results, clsErr := s.classify(ctx, req.PhotoDataURI, quest.Category)
		if clsErr != nil {
			log.Printf("Classifier failure for quest %s: %v", req.QuestID, clsErr)
			return s.finalize(ctx, req, quest, s.fallbackResult(locationMatch, distance), start)
		}
		if len(results) > 0 {
			confidence, objectMatch, labels = s.scoreClassification(quest.Category, results, confidence, &reasons)
		} else {
			confidence, objectMatch = s.scorePhotoPresence(req.PhotoSize, confidence, &reasons)
		}
	} else if req.PhotoSize > 0 {
		confidence, objectMatch = s.scorePhotoPresence(req.PhotoSize, confidence, &reasons)
	}

	// 3. Flat completion bonus for a well-formed submission.
	confidence += s.cfg.BasePoints

	// 4. Clamp.
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}

	// 5. Decision.
	verified := confidence >= s.cfg.VerifyThreshold && locationMatch

	decision := &VerifyResult{
		Verified:      verified,
		Confidence:    confidence,
		Labels:        labels,
		Reasons:       reasons,
		LocationMatch: locationMatch,
		ObjectMatch:   objectMatch,
	}
	return s.finalize(ctx, req, quest, decision, start)
}

// classify calls the classifier with the category's candidate labels,
// converting panics into errors so the fallback path can take over.
func (s *VerificationService) classify(ctx context.Context, dataURI string, category models.QuestCategory) (results []LabelScore, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	return s.classifier.Classify(ctx, dataURI, candidateLabels(category))
}

// scoreClassification applies the label-evidence rules: a confident fraud
// label subtracts points, a category match adds them, and a very confident
// match earns a bonus. The top three labels are kept for audit regardless.
func (s *VerificationService) scoreClassification(category models.QuestCategory, results []LabelScore, confidence int, reasons *[]string) (int, bool, []string) {
	sorted := make([]LabelScore, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	var labels []string
	objectMatch := false

	var topNegative *LabelScore
	for i := range sorted {
		if isNegativeLabel(sorted[i].Label) && sorted[i].Score > s.cfg.NegativeThreshold {
			topNegative = &sorted[i]
			break
		}
	}
	if topNegative != nil {
		confidence -= s.cfg.SuspicionPenalty
		*reasons = append(*reasons, fmt.Sprintf("✗ Suspicious image detected: %s", topNegative.Label))
	}

	var topPositive *LabelScore
	for i := range sorted {
		if isCategoryLabel(category, sorted[i].Label) && sorted[i].Score > s.cfg.PositiveThreshold {
			topPositive = &sorted[i]
			break
		}
	}
	if topPositive != nil {
		objectMatch = true
		confidence += s.cfg.MatchPoints
		labels = append(labels, topPositive.Label)
		*reasons = append(*reasons, fmt.Sprintf("✓ Detected: %s (%d%% confidence)", topPositive.Label, int(math.Round(topPositive.Score*100))))
	} else {
		*reasons = append(*reasons, fmt.Sprintf("✗ Could not detect expected objects for %s quest", category))
	}

	// Keep the top labels for storage and audit even when nothing crossed
	// a threshold.
	for _, r := range sorted {
		if len(labels) >= 3 {
			break
		}
		if !containsString(labels, r.Label) {
			labels = append(labels, r.Label)
		}
	}

	if topPositive != nil && topPositive.Score > s.cfg.HighConfidenceThreshold {
		confidence += s.cfg.HighConfidenceBonus
		*reasons = append(*reasons, "✓ High confidence match")
	}

	return confidence, objectMatch, labels
}

// scorePhotoPresence is the no-AI heuristic: a reasonably sized photo is
// taken as adequate proof, a tiny one only as a weak signal.
func (s *VerificationService) scorePhotoPresence(photoSize int64, confidence int, reasons *[]string) (int, bool) {
	if photoSize > s.cfg.MinPhotoBytes {
		*reasons = append(*reasons, "✓ Photo proof submitted")
		return confidence + s.cfg.PhotoPoints, true
	}
	if photoSize > 0 {
		*reasons = append(*reasons, "⚠️ Photo quality low")
		return confidence + s.cfg.LowQualityPhotoPoints, false
	}
	return confidence, false
}

// fallbackResult is the decision produced when the classifier fails
// unexpectedly: location evidence alone decides, at a fixed reduced
// confidence.
func (s *VerificationService) fallbackResult(locationMatch bool, distance float64) *VerifyResult {
	if locationMatch {
		return &VerifyResult{
			Verified:   true,
			Confidence: s.cfg.FallbackConfidence,
			Reasons: []string{
				"⚠️ AI verification unavailable",
				fmt.Sprintf("✓ Location verified (%dm from quest) - submission accepted with reduced confidence", roundMeters(distance)),
			},
			LocationMatch: true,
		}
	}
	return &VerifyResult{
		Verified:   false,
		Confidence: 0,
		Reasons: []string{
			"⚠️ AI verification unavailable",
			fmt.Sprintf("✗ Too far from quest location (%dm away)", roundMeters(distance)),
		},
	}
}

// finalize persists the submission record and, for accepted submissions,
// applies the award side effects. Persistence failures are logged but never
// alter the decision already computed.
func (s *VerificationService) finalize(ctx context.Context, req VerifyRequest, quest *models.Quest, decision *VerifyResult, start time.Time) (*VerifyResult, error) {
	completedAt := time.Now()

	xp := 0
	awarded := false
	if decision.Verified {
		xp = s.awardAmount(quest, req.UserID)

		// The acceptance id is the idempotency key: if the conditional
		// transition reports no change, a concurrent or earlier submission
		// already claimed this acceptance and the award is skipped.
		mctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		transitioned, err := s.store.CompleteUserQuest(mctx, req.UserQuestID, xp, completedAt)
		cancel()
		if err != nil {
			log.Printf("User quest completion failed for %s: %v", req.UserQuestID, err)
		} else if !transitioned {
			log.Printf("User quest %s already completed, skipping award", req.UserQuestID)
		} else {
			awarded = true
		}
	}

	sub := s.buildSubmission(req, quest, decision, completedAt)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		if err := s.store.InsertSubmission(mctx, sub); err != nil {
			log.Printf("Submission save error for quest %s: %v", req.QuestID, err)
		}
	}()

	if awarded {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.applyAward(req.UserID, req.QuestID, string(quest.Category), xp)
		}()
	}
	wg.Wait()

	if awarded {
		decision.XPAwarded = xp
	}
	decision.ResponseTimeMs = time.Since(start).Milliseconds()
	return decision, nil
}

// awardAmount computes the XP grant for a verified submission. The streak
// multiplier is applied before the featured doubling when enabled.
func (s *VerificationService) awardAmount(quest *models.Quest, userID string) int {
	xp := quest.XPReward
	if s.cfg.ApplyStreakBonus {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		profile, err := s.store.FetchProfile(ctx, userID)
		cancel()
		if err != nil {
			log.Printf("Streak lookup failed for user %s, awarding base XP: %v", userID, err)
		} else {
			xp = gamification.XPWithStreakBonus(xp, profile.CurrentStreak)
		}
	}
	if quest.IsFeatured {
		xp *= 2
	}
	return xp
}

// applyAward increments the profile and quest counters, recomputes the
// derived level, title and badge set, and broadcasts progression events.
func (s *VerificationService) applyAward(userID, questID, category string, xp int) {
	ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
	defer cancel()

	if err := s.store.IncrementQuestCompletions(ctx, questID); err != nil {
		log.Printf("Quest completion counter update failed for %s: %v", questID, err)
	}

	profile, err := s.store.AwardProfileXP(ctx, userID, xp, category)
	if err != nil {
		log.Printf("Profile XP award failed for user %s: %v", userID, err)
		return
	}

	prevLevel := profile.Level
	prevBadges := profile.Badges

	info := gamification.CalculateLevelInfo(profile.TotalXP)
	badges := gamification.EarnedBadges(profile.QuestsCompleted, profile.TotalXP, profile.CurrentStreak, profile.CategoryStats)
	if err := s.store.UpdateProfileProgress(ctx, userID, info.Level, info.Title, badges); err != nil {
		log.Printf("Profile progress update failed for user %s: %v", userID, err)
	}

	s.emit(models.GamificationEvent{
		Type:       "xp_awarded",
		UserID:     userID,
		QuestID:    questID,
		XPAwarded:  xp,
		NewTotalXP: profile.TotalXP,
		NewLevel:   info.Level,
		Timestamp:  time.Now(),
	})
	if info.Level > prevLevel {
		s.emit(models.GamificationEvent{
			Type:      "level_up",
			UserID:    userID,
			NewLevel:  info.Level,
			Timestamp: time.Now(),
		})
	}
	for _, id := range badges {
		if !containsString(prevBadges, id) {
			s.emit(models.GamificationEvent{
				Type:      "badge_earned",
				UserID:    userID,
				BadgeID:   id,
				Timestamp: time.Now(),
			})
		}
	}
}

func (s *VerificationService) emit(event models.GamificationEvent) {
	if s.broadcast != nil {
		s.broadcast(event)
	}
}

// buildSubmission assembles the immutable submission record. Rejected
// submissions carry the concatenation of all failed-check reasons.
func (s *VerificationService) buildSubmission(req VerifyRequest, quest *models.Quest, decision *VerifyResult, completedAt time.Time) *models.Submission {
	sub := &models.Submission{
		AuditID:            uuid.NewString(),
		ImageURL:           req.ImageURL,
		SubmittedLatitude:  req.Latitude,
		SubmittedLongitude: req.Longitude,
		Confidence:         decision.Confidence,
		Labels:             decision.Labels,
		CreatedAt:          completedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(req.UserID); err == nil {
		sub.UserID = oid
	}
	sub.QuestID = quest.ID
	if oid, err := primitive.ObjectIDFromHex(req.UserQuestID); err == nil {
		sub.UserQuestID = oid
	}

	if decision.Verified {
		sub.Status = models.SubmissionVerified
		sub.VerifiedAt = &completedAt
	} else {
		sub.Status = models.SubmissionRejected
		sub.RejectionReason = rejectionReason(decision.Reasons)
	}
	return sub
}

// rejectionReason joins the negative-prefixed reason strings.
func rejectionReason(reasons []string) string {
	var failed []string
	for _, r := range reasons {
		if strings.HasPrefix(r, "✗") {
			failed = append(failed, r)
		}
	}
	return strings.Join(failed, "; ")
}

func roundMeters(distance float64) int {
	return int(math.Round(distance))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
