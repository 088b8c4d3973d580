package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/stats"
)

// Volume/Value constants. Frequency scoring is intentionally non-monotonic:
// both too sparse and too frequent are suspicious, moderate cadence wins.
const (
	bayesianPriorCount = 5.0
	bayesianPriorMean  = 3.0
	highFrequencyFlag  = 10.0 // posts/day above which HIGH_POST_FREQUENCY fires
)

// Originality constants.
const (
	ncdPairCap          = 20
	ncdMinTextLen       = 30
	templateMinComments = 15
	keywordMinLen       = 4
	keywordCap          = 50
)

// Spam constants.
const (
	spamNCDNearDuplicate = 0.15
	spamNCDSampleCap     = 15
	carpetBombRate       = 30.0 // comments per hour
	promoRatio           = 0.3
)

func (s *Scorer) scoreVolumeValue(now time.Time, profile model.AgentProfile, posts []model.Post) Dimension {
	accountAgeDays := math.Max(1, now.Sub(profile.CreatedAt).Hours()/hoursPerDay)

	spanDays := accountAgeDays
	if earliest, ok := earliestTime(posts); ok {
		spanDays = now.Sub(earliest).Hours() / hoursPerDay
	}
	// A burst of posts in a tiny window must read as a very high daily rate.
	denom := math.Max(1.0/hoursPerDay, math.Min(accountAgeDays, spanDays))
	postsPerDay := float64(len(posts)) / denom

	var sumUpvotes, sumComments float64
	for i := range posts {
		sumUpvotes += float64(posts[i].Upvotes)
		sumComments += float64(posts[i].CommentCount)
	}
	avgUpvotes := 0.0
	avgComments := 0.0
	if len(posts) > 0 {
		avgUpvotes = sumUpvotes / float64(len(posts))
		avgComments = sumComments / float64(len(posts))
	}

	var freqScore float64
	switch {
	case postsPerDay > 15:
		freqScore = 20
	case postsPerDay > 8:
		freqScore = 40
	case postsPerDay > 3:
		freqScore = 70
	case postsPerDay > 0.5:
		freqScore = 90
	default:
		freqScore = 50
	}

	// Bayesian-shrunk average upvotes dampens small-sample swings.
	bayesianUpvotes := (bayesianPriorCount*bayesianPriorMean + float64(len(posts))*avgUpvotes) /
		(bayesianPriorCount + float64(len(posts)))
	var qualityScore float64
	switch {
	case bayesianUpvotes > 10:
		qualityScore = 95
	case bayesianUpvotes > 5:
		qualityScore = 80
	case bayesianUpvotes > 2:
		qualityScore = 60
	default:
		qualityScore = 35
	}

	flags := []string{}
	if postsPerDay > highFrequencyFlag {
		flags = append(flags, FlagHighPostFrequency)
	}

	return Dimension{
		Score: math.Round(freqScore*0.4 + qualityScore*0.6),
		Details: map[string]any{
			"posts_per_day":    round1(postsPerDay),
			"avg_upvotes":      round1(avgUpvotes),
			"bayesian_upvotes": round1(bayesianUpvotes),
			"avg_comments":     round1(avgComments),
			"total_posts":      len(posts),
		},
		Flags: flags,
	}
}

// Structural opening categories for comment classification.
var (
	reChallenge   = regexp.MustCompile(`^(wait|hold on|okay but|ok but|hmm|huh)`)
	reQuestion    = regexp.MustCompile(`^(what if|what about|how do|how does|how would|why do|why does|can you)`)
	reOpinion     = regexp.MustCompile(`^(i think|i believe|i feel|i'm not sure|i'm curious|in my|my take)`)
	reDeclarative = regexp.MustCompile(`^(that's|this is|it's|the |there's)`)
	rePraise      = regexp.MustCompile(`^(great|love|nice|interesting|fascinating|amazing|incredible|solid)`)
	reAgreement   = regexp.MustCompile(`^(yeah|yes|no|nah|true|exactly|agreed|right)`)
)

func classifyStructure(text string) string {
	t := strings.ToLower(text)
	switch {
	case reChallenge.MatchString(t):
		return "CHALLENGE"
	case reQuestion.MatchString(t):
		return "QUESTION"
	case reOpinion.MatchString(t):
		return "OPINION"
	case reDeclarative.MatchString(t):
		return "DECLARATIVE"
	case rePraise.MatchString(t):
		return "PRAISE"
	case reAgreement.MatchString(t):
		return "AGREEMENT"
	default:
		return "OTHER"
	}
}

var starterPunct = strings.NewReplacer(",", "", ".", "", ":", "", "!", "", "?", "")

// opener returns the first n words of text, lowercased.
func opener(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.ToLower(strings.Join(words, " "))
}

// topCoverage sums the k largest counts and divides by total.
func topCoverage(freq map[string]int, k, total int) float64 {
	counts := make([]int, 0, len(freq))
	for _, c := range freq {
		counts = append(counts, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	if len(counts) > k {
		counts = counts[:k]
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	return float64(sum) / float64(total)
}

func (s *Scorer) scoreOriginality(posts []model.Post, comments []model.Comment) Dimension {
	total := len(comments)
	denom := total
	if denom == 0 {
		denom = 1
	}

	// Level 1: structural opening category concentration.
	structFreq := make(map[string]int)
	for i := range comments {
		structFreq[classifyStructure(comments[i].Content)]++
	}
	top2StructCoverage := topCoverage(structFreq, 2, denom)

	// Level 2: literal 2-word opener concentration.
	starterFreq2 := make(map[string]int)
	for i := range comments {
		starterFreq2[starterPunct.Replace(opener(comments[i].Content, 2))]++
	}
	top3Coverage := topCoverage(starterFreq2, 3, denom)

	// Level 3: mean pairwise NCD across a capped sample of long comments.
	avgNCD := 0.5 // neutral default
	if len(comments) >= 4 {
		texts := make([]string, 0, len(comments))
		for i := range comments {
			if len(comments[i].Content) > ncdMinTextLen {
				texts = append(texts, comments[i].Content)
			}
		}
		maxPairs := len(texts) * (len(texts) - 1) / 2
		if maxPairs > ncdPairCap {
			maxPairs = ncdPairCap
		}
		var ncdSum float64
		ncdCount := 0
		for i := 0; i < len(texts) && ncdCount < maxPairs; i++ {
			for j := i + 1; j < len(texts) && ncdCount < maxPairs; j++ {
				ncdSum += stats.NCD(texts[i], texts[j])
				ncdCount++
			}
		}
		if ncdCount > 0 {
			avgNCD = ncdSum / float64(ncdCount)
		}
	}
	// Low NCD is the strongest fraud signal here, so it is scaled directly.
	ncdScore := math.Round(math.Min(100, avgNCD*125))

	// Level 4: Jaccard similarity of post keyword sets.
	keywordSets := make([]map[string]struct{}, 0, len(posts))
	for i := range posts {
		set := make(map[string]struct{})
		words := strings.Fields(strings.ToLower(posts[i].Title + " " + posts[i].Content))
		for _, w := range words {
			if len(w) > keywordMinLen {
				set[w] = struct{}{}
				if len(set) >= keywordCap {
					break
				}
			}
		}
		keywordSets = append(keywordSets, set)
	}
	var avgSimilarity float64
	pairCount := 0
	for i := 0; i < len(keywordSets); i++ {
		for j := i + 1; j < len(keywordSets); j++ {
			inter := 0
			for w := range keywordSets[i] {
				if _, ok := keywordSets[j][w]; ok {
					inter++
				}
			}
			union := len(keywordSets[i]) + len(keywordSets[j]) - inter
			if union > 0 {
				avgSimilarity += float64(inter) / float64(union)
				pairCount++
			}
		}
	}
	if pairCount > 0 {
		avgSimilarity /= float64(pairCount)
	}

	// Level 5: unique 4-word opener ratio.
	starterFreq4 := make(map[string]int)
	for i := range comments {
		starterFreq4[opener(comments[i].Content, 4)]++
	}
	uniqueStarters := len(starterFreq4)
	starterDiversity := float64(uniqueStarters) / float64(denom)

	structuralScore := math.Round((1 - top2StructCoverage) * 100)
	patternScore := math.Round((1 - top3Coverage) * 100)
	diversityScore := math.Round(math.Min(1, starterDiversity*2) * 100)
	similarityScore := math.Round((1 - avgSimilarity) * 100)

	score := math.Round(structuralScore*0.20 +
		patternScore*0.20 +
		ncdScore*0.25 +
		diversityScore*0.15 +
		similarityScore*0.20)

	flags := []string{}
	if total >= templateMinComments &&
		(top3Coverage > 0.5 || top2StructCoverage > 0.7 || avgNCD < 0.25) {
		flags = append(flags, FlagTemplateComments)
	}

	return Dimension{
		Score: score,
		Details: map[string]any{
			"top3_two_word_coverage":  int(math.Round(top3Coverage * 100)),
			"top_structural_coverage": int(math.Round(top2StructCoverage * 100)),
			"avg_ncd":                 math.Round(avgNCD*100) / 100,
			"ncd_score":               ncdScore,
			"unique_starters":         uniqueStarters,
			"total_comments":          total,
			"avg_post_similarity":     int(math.Round(avgSimilarity * 100)),
		},
		Flags: flags,
	}
}

func (s *Scorer) scoreEngagement(posts []model.Post, comments []model.Comment) Dimension {
	var avgCommentsPerPost float64
	if len(posts) > 0 {
		var sum float64
		for i := range posts {
			sum += float64(posts[i].CommentCount)
		}
		avgCommentsPerPost = sum / float64(len(posts))
	}

	var avgCommentUpvotes, avgCommentLength float64
	uniqueParents := make(map[string]struct{})
	if len(comments) > 0 {
		var upvotes, length float64
		for i := range comments {
			upvotes += float64(comments[i].Upvotes)
			length += float64(len(comments[i].Content))
			if comments[i].Parent != nil && comments[i].Parent.ID != "" {
				uniqueParents[comments[i].Parent.ID] = struct{}{}
			}
		}
		avgCommentUpvotes = upvotes / float64(len(comments))
		avgCommentLength = length / float64(len(comments))
	}

	// Response relevance: vocabulary overlap between a comment and the title
	// of its parent post. Needs at least 3 resolvable parents.
	relevanceScore := 50.0
	withParent := make([]model.Comment, 0, len(comments))
	for i := range comments {
		if comments[i].Parent != nil && comments[i].Parent.Title != "" {
			withParent = append(withParent, comments[i])
		}
	}
	if len(withParent) >= 3 {
		var sum float64
		for i := range withParent {
			titleWords := make(map[string]struct{})
			for _, w := range strings.Fields(strings.ToLower(withParent[i].Parent.Title)) {
				if len(w) > 3 {
					titleWords[w] = struct{}{}
				}
			}
			if len(titleWords) == 0 {
				sum += 0.5
				continue
			}
			overlap := 0
			for _, w := range strings.Fields(strings.ToLower(withParent[i].Content)) {
				if len(w) <= 3 {
					continue
				}
				if _, ok := titleWords[w]; ok {
					overlap++
				}
			}
			sum += math.Min(1, float64(overlap)/float64(len(titleWords)))
		}
		avgRelevance := sum / float64(len(withParent))
		relevanceScore = math.Round(math.Min(100, avgRelevance*250))
	}

	var discussionScore float64
	switch {
	case avgCommentsPerPost > 15:
		discussionScore = 90
	case avgCommentsPerPost > 5:
		discussionScore = 70
	case avgCommentsPerPost > 2:
		discussionScore = 50
	default:
		discussionScore = 30
	}

	var commentQualityScore float64
	switch {
	case avgCommentLength > 200:
		commentQualityScore = 85
	case avgCommentLength > 100:
		commentQualityScore = 65
	case avgCommentLength > 50:
		commentQualityScore = 45
	default:
		commentQualityScore = 25
	}

	flags := []string{}
	if len(comments) > 0 && avgCommentLength < 50 {
		flags = append(flags, FlagShortComments)
	}

	return Dimension{
		Score: math.Round(discussionScore*0.35 + commentQualityScore*0.35 + relevanceScore*0.30),
		Details: map[string]any{
			"avg_comments_per_post":  round1(avgCommentsPerPost),
			"avg_comment_upvotes":    round1(avgCommentUpvotes),
			"avg_comment_length":     int(math.Round(avgCommentLength)),
			"unique_posts_commented": len(uniqueParents),
			"relevance_score":        relevanceScore,
		},
		Flags: flags,
	}
}

func (s *Scorer) scoreCredibility(now time.Time, profile model.AgentProfile) Dimension {
	score := 30.0
	flags := []string{}

	if profile.IsClaimed {
		score += 20
	} else {
		flags = append(flags, FlagNotClaimed)
	}

	ownerHandle := ""
	ownerFollowers := 0
	if profile.Owner != nil {
		ownerHandle = profile.Owner.Handle
		ownerFollowers = profile.Owner.FollowerCount
		score += 10
		switch {
		case ownerFollowers > 5000:
			score += 15
		case ownerFollowers > 1000:
			score += 10
		case ownerFollowers > 100:
			score += 5
		}
		if profile.Owner.Verified {
			score += 5
		}
	}

	ageDays := now.Sub(profile.CreatedAt).Hours() / hoursPerDay
	switch {
	case ageDays > 14:
		score += 10
	case ageDays > 7:
		score += 5
	}

	following := profile.FollowingCount
	if following < 1 {
		following = 1
	}
	followerRatio := float64(profile.FollowerCount) / float64(following)
	switch {
	case followerRatio > 3:
		score += 10
	case followerRatio > 1:
		score += 5
	}

	return Dimension{
		Score: math.Min(100, score),
		Details: map[string]any{
			"is_claimed":       profile.IsClaimed,
			"owner_handle":     ownerHandle,
			"owner_followers":  ownerFollowers,
			"account_age_days": int(math.Round(ageDays)),
			"follower_ratio":   round1(followerRatio),
			"followers":        profile.FollowerCount,
			"following":        profile.FollowingCount,
		},
		Flags: flags,
	}
}

// Capability evidence patterns.
var (
	reURL    = regexp.MustCompile(`https?://[^\s)]+`)
	reTxHash = regexp.MustCompile(`(?i)0x[a-f0-9]{40,}`)
	reTech   = regexp.MustCompile(`(?i)\b(api|sdk|contract|deploy|blockchain|protocol|registry|escrow|wallet|token|encryption|algorithm|database|frontend|backend|node|server|git|repo)\b`)
)

// claimStems match stemmed capability claims in a biography, e.g. "trad"
// covers trade/trader/trading.
var claimStems = []string{
	"build", "develop", "creat", "deploy", "audit", "research",
	"analyz", "trad", "manag", "automat", "special", "expert", "engineer",
}

func (s *Scorer) scoreCapability(profile model.AgentProfile, posts []model.Post, comments []model.Comment) Dimension {
	bio := strings.ToLower(profile.Description)

	var contentParts []string
	for i := range posts {
		contentParts = append(contentParts, posts[i].Title+" "+posts[i].Content)
	}
	allContent := strings.Join(contentParts, "\n")

	var commentParts []string
	for i := range comments {
		commentParts = append(commentParts, comments[i].Content)
	}
	allComments := strings.Join(commentParts, "\n")

	codeBlocks := strings.Count(allContent, "```") / 2
	urls := len(reURL.FindAllString(allContent, -1))
	txHashes := len(reTxHash.FindAllString(allContent, -1))

	hasClaims := false
	for _, stem := range claimStems {
		if strings.Contains(bio, stem) {
			hasClaims = true
			break
		}
	}

	combined := allContent + " " + allComments
	technicalTerms := len(reTech.FindAllString(combined, -1))
	wordCount := len(strings.Fields(combined))
	if wordCount < 1 {
		wordCount = 1
	}
	technicalDensity := float64(technicalTerms) / float64(wordCount) * 100

	evidenceScore := 30.0
	if codeBlocks > 0 {
		evidenceScore += 20
	}
	switch {
	case urls > 2:
		evidenceScore += 15
	case urls > 0:
		evidenceScore += 8
	}
	if txHashes > 0 {
		evidenceScore += 15
	}
	switch {
	case technicalDensity > 2:
		evidenceScore += 15
	case technicalDensity > 1:
		evidenceScore += 8
	}

	flags := []string{}
	if hasClaims && evidenceScore <= 40 {
		// Claims with nothing to back them are worse than no claims at all.
		evidenceScore = math.Max(15, evidenceScore-15)
		flags = append(flags, FlagClaimsWithoutEvidence)
	}
	if !hasClaims {
		evidenceScore = 50
	}

	bioSummary := bio
	if len(bioSummary) > 100 {
		bioSummary = bioSummary[:100]
	}
	if bioSummary == "" {
		bioSummary = "(no bio)"
	}

	return Dimension{
		Score: math.Min(100, evidenceScore),
		Details: map[string]any{
			"bio_summary":       bioSummary,
			"has_claims":        hasClaims,
			"code_blocks":       codeBlocks,
			"urls":              urls,
			"tx_hashes":         txHashes,
			"technical_density": math.Round(technicalDensity*100) / 100,
		},
		Flags: flags,
	}
}

var rePromo = regexp.MustCompile(`(?i)\b(buy|invest|token|airdrop|dm me|check out my|follow me|join my)\b`)

func (s *Scorer) detectSpam(posts []model.Post, comments []model.Comment) Dimension {
	flags := []string{}
	spamScore := 0.0
	hasFlag := func(f string) bool {
		for _, x := range flags {
			if x == f {
				return true
			}
		}
		return false
	}

	// Timing analysis: mechanical regularity shows as strongly negative B.
	var postBurst stats.Burst
	if len(posts) > 3 {
		times := make([]time.Time, len(posts))
		for i := range posts {
			times[i] = posts[i].CreatedAt
		}
		postBurst = stats.Burstiness(times)

		switch {
		case postBurst.B < -0.5:
			spamScore += 35
			flags = append(flags, FlagRobotTiming)
		case postBurst.B < -0.2:
			spamScore += 15
			flags = append(flags, FlagRegularTiming)
		}

		if len(comments) > 5 {
			ctimes := make([]time.Time, len(comments))
			for i := range comments {
				ctimes[i] = comments[i].CreatedAt
			}
			if stats.Burstiness(ctimes).B < -0.5 {
				spamScore += 20
				if !hasFlag(FlagRobotTiming) {
					flags = append(flags, FlagRobotTiming)
				}
			}
		}
	}

	// Exact duplicate comment pairs.
	texts := make([]string, len(comments))
	for i := range comments {
		texts[i] = strings.TrimSpace(strings.ToLower(comments[i].Content))
	}
	dupeCount := 0
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			if len(texts[i]) > 20 && texts[i] == texts[j] {
				dupeCount++
			}
		}
	}
	if dupeCount > 0 {
		spamScore += math.Min(40, float64(dupeCount)*15)
		flags = append(flags, FlagDuplicateComments)
	}

	// Near-duplicates by compression distance, only when no exact dupes.
	if len(comments) >= 5 && dupeCount == 0 {
		long := make([]string, 0, len(texts))
		for _, t := range texts {
			if len(t) > ncdMinTextLen {
				long = append(long, t)
			}
		}
		maxChecks := len(long)
		if maxChecks > spamNCDSampleCap {
			maxChecks = spamNCDSampleCap
		}
		nearDupes := 0
		for i := 0; i < maxChecks; i++ {
			for j := i + 1; j < maxChecks; j++ {
				if stats.NCD(long[i], long[j]) < spamNCDNearDuplicate {
					nearDupes++
				}
			}
		}
		if nearDupes > 2 {
			spamScore += math.Min(25, float64(nearDupes)*8)
			flags = append(flags, FlagNearDuplicateComments)
		}
	}

	// Carpet bombing: sustained comment rate over the observed span.
	if len(comments) > 10 {
		first := comments[0].CreatedAt
		last := comments[0].CreatedAt
		for i := range comments {
			if comments[i].CreatedAt.Before(first) {
				first = comments[i].CreatedAt
			}
			if comments[i].CreatedAt.After(last) {
				last = comments[i].CreatedAt
			}
		}
		spanHours := math.Max(1, last.Sub(first).Hours())
		if float64(len(comments))/spanHours > carpetBombRate {
			spamScore += 30
			flags = append(flags, FlagCarpetBombing)
		}
	}

	// Promotional content ratio.
	promoCount := 0
	for i := range comments {
		if rePromo.MatchString(comments[i].Content) {
			promoCount++
		}
	}
	if float64(promoCount) > float64(len(comments))*promoRatio {
		spamScore += 25
		flags = append(flags, FlagPromotionalContent)
	}

	details := map[string]any{
		"duplicate_comments": dupeCount,
		"promo_comments":     promoCount,
	}
	if len(posts) > 3 {
		details["post_burstiness"] = math.Round(postBurst.B*100) / 100
	}

	return Dimension{
		Score:   math.Min(100, spamScore),
		Details: details,
		Flags:   flags,
	}
}

// earliestTime returns the oldest post timestamp, if any.
func earliestTime(posts []model.Post) (time.Time, bool) {
	var earliest time.Time
	for i := range posts {
		if earliest.IsZero() || posts[i].CreatedAt.Before(earliest) {
			earliest = posts[i].CreatedAt
		}
	}
	return earliest, !earliest.IsZero()
}
