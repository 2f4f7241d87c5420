package remote_test

import "github.com/matthallesq/modlab/internal/domain/insight"

func insightWithVersion(id string, version int64) insight.Insight {
	return insight.Insight{ID: id, ProjectID: "p1", Title: "Pricing", InsightText: "x", Version: version}
}
