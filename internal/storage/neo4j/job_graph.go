package neo4j

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/pkg/discovery"
	pkgneo4j "github.com/honeycarbs/jobmatch/pkg/neo4j"
)

var _ repository.JobGraphRepository = (*JobGraphRepository)(nil)

const defaultSkillGapLimit = 10

// JobGraphRepository implements repository.JobGraphRepository with Neo4j
type JobGraphRepository struct {
	client *pkgneo4j.Client
	now    func() time.Time
}

// NewJobGraphRepository creates a JobGraphRepository with a Neo4j client
func NewJobGraphRepository(client *pkgneo4j.Client) *JobGraphRepository {
	return &JobGraphRepository{client: client, now: time.Now}
}

const recordQuery = `
	MERGE (u:User {id: $userId})
	WITH u
	UNWIND $jobs AS job
	MERGE (j:Job {key: job.key})
	SET j.title = job.title,
	    j.location = job.location,
	    j.url = job.url,
	    j.source = job.source,
	    j.remote = job.remote
	MERGE (u)-[r:RECOMMENDED]->(j)
	SET r.score = job.score,
	    r.recommendation = job.recommendation,
	    r.at = datetime({epochMillis: $at})
	FOREACH (hasCompany IN CASE WHEN job.company <> "" THEN [1] ELSE [] END |
		MERGE (c:Company {name: job.company})
		MERGE (j)-[:POSTED_BY]->(c)
	)
	FOREACH (skill IN job.required |
		MERGE (s:Skill {name: skill})
		MERGE (j)-[:REQUIRES]->(s)
	)
	FOREACH (skill IN job.missing |
		MERGE (s:Skill {name: skill})
		MERGE (u)-[m:MISSING {job: job.key}]->(s)
	)
`

// RecordRecommendations merges ranked jobs, their companies and skills, and
// the user's missing skills into the graph
func (r *JobGraphRepository) RecordRecommendations(ctx context.Context, userID domain.UserID, jobs []discovery.RankedJob) error {
	data := recommendationParams(jobs)
	if len(data) == 0 {
		return nil
	}

	err := r.client.Write(ctx, recordQuery, map[string]any{
		"userId": userID.String(),
		"at":     r.now().UnixMilli(),
		"jobs":   data,
	})
	if err != nil {
		return fmt.Errorf("record recommendations: %w", err)
	}
	return nil
}

const skillGapQuery = `
	MATCH (:User {id: $userId})-[m:MISSING]->(s:Skill)
	RETURN s.name AS skill, count(DISTINCT m.job) AS jobs
	ORDER BY jobs DESC, skill ASC
	LIMIT $limit
`

// SkillGaps returns the skills the user most often lacks
func (r *JobGraphRepository) SkillGaps(ctx context.Context, userID domain.UserID, limit int) ([]domain.SkillGap, error) {
	if limit <= 0 {
		limit = defaultSkillGapLimit
	}

	records, err := r.client.Read(ctx, skillGapQuery, map[string]any{
		"userId": userID.String(),
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("skill gaps: %w", err)
	}

	gaps := make([]domain.SkillGap, 0, len(records))
	for _, rec := range records {
		skill, _, err := neo4j.GetRecordValue[string](rec, "skill")
		if err != nil {
			return nil, fmt.Errorf("skill gaps: read skill: %w", err)
		}
		jobs, _, err := neo4j.GetRecordValue[int64](rec, "jobs")
		if err != nil {
			return nil, fmt.Errorf("skill gaps: read count: %w", err)
		}
		gaps = append(gaps, domain.SkillGap{Skill: skill, Jobs: int(jobs)})
	}
	return gaps, nil
}

// recommendationParams flattens ranked jobs into query parameters, dropping
// jobs with neither id nor url
func recommendationParams(jobs []discovery.RankedJob) []map[string]any {
	out := make([]map[string]any, 0, len(jobs))
	for _, rj := range jobs {
		key := jobKey(rj.Job)
		if key == "" {
			continue
		}
		out = append(out, map[string]any{
			"key":            key,
			"title":          rj.Job.Title,
			"company":        strings.TrimSpace(rj.Job.Company),
			"location":       rj.Job.Location,
			"url":            rj.Job.URL,
			"source":         rj.Job.Source,
			"remote":         rj.Job.Remote,
			"score":          rj.OverallScore,
			"recommendation": rj.Recommendation,
			"required":       normalizeSkills(rj.Job.SkillsRequired),
			"missing":        normalizeSkills(rj.MissingSkills),
		})
	}
	return out
}

func jobKey(j discovery.JobListing) string {
	if id := strings.TrimSpace(j.ID); id != "" {
		return id
	}
	return strings.TrimSpace(j.URL)
}

// normalizeSkills lowercases, trims and dedupes skill names
func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
