package pgx

import (
	"context"
	"fmt"

	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/common"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pgvector/pgvector-go"
)

const (
	sourceKindVariable = "variable"
	sourceKindLink     = "link"
)

// ReplaceGraph atomically swaps the stored graph of a session. The previous
// variables, links, clusters, units and sources are removed and the new graph
// is written in the same transaction.
func (s *GraphDBStorage) ReplaceGraph(ctx context.Context, sessionID string, g *common.Graph) error {
	if g == nil {
		return fmt.Errorf("graph is nil")
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := deleteGraphData(ctx, tx, sessionID); err != nil {
		return err
	}

	logger.Debug("[Store][ReplaceGraph] Writing graph",
		"session_id", sessionID,
		"variables", len(g.Variables),
		"links", len(g.Links),
		"clusters", len(g.Clusters),
		"units", len(g.Units),
	)

	batch := &pgxv5.Batch{}

	for _, u := range g.Units {
		batch.Queue(`
			INSERT INTO units (id, session_id, document_id, start_idx, end_idx, content)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, sessionID, u.DocumentID, u.Start, u.End, util.SanitizePostgresText(u.Text),
		)
	}

	for _, c := range g.Clusters {
		batch.Queue(`
			INSERT INTO clusters (id, session_id, label)
			VALUES ($1, $2, $3)`,
			c.ID, sessionID, c.Label,
		)
	}

	for i := range g.Variables {
		v := &g.Variables[i]
		var embedding any
		if len(v.Embedding) > 0 {
			embedding = pgvector.NewVector(v.Embedding)
		}
		var clusterID any
		if v.ClusterID != "" {
			clusterID = v.ClusterID
		}
		batch.Queue(`
			INSERT INTO variables (id, session_id, name, description, cluster_id, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			v.ID, sessionID, v.Name, util.SanitizePostgresText(v.Description), clusterID, embedding,
		)
	}

	for _, l := range g.Links {
		if l.Source == nil || l.Target == nil {
			continue
		}
		batch.Queue(`
			INSERT INTO links (id, session_id, source_id, target_id, description, confidence)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, sessionID, l.Source.ID, l.Target.ID, util.SanitizePostgresText(l.Description), l.Confidence,
		)
	}

	queueSources := func(parentKind, parentID string, sources []common.Source) {
		for _, src := range sources {
			var unitID any
			if src.Unit != nil {
				unitID = src.Unit.ID
			}
			batch.Queue(`
				INSERT INTO sources (id, session_id, unit_id, parent_kind, parent_id, description)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				src.ID, sessionID, unitID, parentKind, parentID, util.SanitizePostgresText(src.Description),
			)
		}
	}

	for i := range g.Variables {
		queueSources(sourceKindVariable, g.Variables[i].ID, g.Variables[i].Sources)
	}
	for _, l := range g.Links {
		if l.Source == nil || l.Target == nil {
			continue
		}
		queueSources(sourceKindLink, l.ID, l.Sources)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to write graph: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func deleteGraphData(ctx context.Context, tx pgxv5.Tx, sessionID string) error {
	statements := []string{
		`DELETE FROM sources WHERE session_id = $1`,
		`DELETE FROM links WHERE session_id = $1`,
		`DELETE FROM variables WHERE session_id = $1`,
		`DELETE FROM clusters WHERE session_id = $1`,
		`DELETE FROM units WHERE session_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, sessionID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteGraph removes the graph and topic data of a session while keeping the
// session and its documents.
func (s *GraphDBStorage) DeleteGraph(ctx context.Context, sessionID string) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := deleteGraphData(ctx, tx, sessionID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM topics WHERE session_id = $1`, sessionID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetGraph loads the full graph of a session. Returns store.ErrNotFound when
// the session does not exist; a session without processed documents yields an
// empty graph.
func (s *GraphDBStorage) GetGraph(ctx context.Context, sessionID string) (*common.Graph, error) {
	var exists bool
	err := s.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, sessionID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	g := &common.Graph{
		ID:        sessionID,
		Variables: make([]common.Variable, 0),
		Links:     make([]common.CausalLink, 0),
		Clusters:  make([]common.Cluster, 0),
		Units:     make([]*common.Unit, 0),
	}

	unitRows, err := s.conn.Query(ctx, `
		SELECT id, document_id, start_idx, end_idx, content
		FROM units
		WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer unitRows.Close()

	unitByID := make(map[string]*common.Unit)
	for unitRows.Next() {
		u := &common.Unit{}
		if err := unitRows.Scan(&u.ID, &u.DocumentID, &u.Start, &u.End, &u.Text); err != nil {
			return nil, err
		}
		unitByID[u.ID] = u
		g.Units = append(g.Units, u)
	}
	if err := unitRows.Err(); err != nil {
		return nil, err
	}

	varRows, err := s.conn.Query(ctx, `
		SELECT id, name, description, COALESCE(cluster_id, '')
		FROM variables
		WHERE session_id = $1
		ORDER BY name ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer varRows.Close()

	for varRows.Next() {
		var v common.Variable
		if err := varRows.Scan(&v.ID, &v.Name, &v.Description, &v.ClusterID); err != nil {
			return nil, err
		}
		v.Sources = make([]common.Source, 0)
		g.Variables = append(g.Variables, v)
	}
	if err := varRows.Err(); err != nil {
		return nil, err
	}

	varByID := make(map[string]*common.Variable, len(g.Variables))
	for i := range g.Variables {
		varByID[g.Variables[i].ID] = &g.Variables[i]
	}

	linkRows, err := s.conn.Query(ctx, `
		SELECT id, source_id, target_id, description, confidence
		FROM links
		WHERE session_id = $1
		ORDER BY confidence DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var l common.CausalLink
		var sourceID, targetID string
		if err := linkRows.Scan(&l.ID, &sourceID, &targetID, &l.Description, &l.Confidence); err != nil {
			return nil, err
		}
		l.Source = varByID[sourceID]
		l.Target = varByID[targetID]
		if l.Source == nil || l.Target == nil {
			continue
		}
		l.Sources = make([]common.Source, 0)
		g.Links = append(g.Links, l)
	}
	if err := linkRows.Err(); err != nil {
		return nil, err
	}

	linkByID := make(map[string]*common.CausalLink, len(g.Links))
	for i := range g.Links {
		linkByID[g.Links[i].ID] = &g.Links[i]
	}

	clusterRows, err := s.conn.Query(ctx, `
		SELECT c.id, c.label, COALESCE(array_agg(v.id) FILTER (WHERE v.id IS NOT NULL), '{}')
		FROM clusters c
		LEFT JOIN variables v ON v.cluster_id = c.id
		WHERE c.session_id = $1
		GROUP BY c.id, c.label
		ORDER BY c.label ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer clusterRows.Close()

	for clusterRows.Next() {
		var c common.Cluster
		if err := clusterRows.Scan(&c.ID, &c.Label, &c.Variables); err != nil {
			return nil, err
		}
		g.Clusters = append(g.Clusters, c)
	}
	if err := clusterRows.Err(); err != nil {
		return nil, err
	}

	sourceRows, err := s.conn.Query(ctx, `
		SELECT id, COALESCE(unit_id, ''), parent_kind, parent_id, description
		FROM sources
		WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer sourceRows.Close()

	for sourceRows.Next() {
		var src common.Source
		var unitID, parentKind, parentID string
		if err := sourceRows.Scan(&src.ID, &unitID, &parentKind, &parentID, &src.Description); err != nil {
			return nil, err
		}
		if unitID != "" {
			src.Unit = unitByID[unitID]
		}

		switch parentKind {
		case sourceKindVariable:
			if v := varByID[parentID]; v != nil {
				v.Sources = append(v.Sources, src)
			}
		case sourceKindLink:
			if l := linkByID[parentID]; l != nil {
				l.Sources = append(l.Sources, src)
			}
		}
	}
	if err := sourceRows.Err(); err != nil {
		return nil, err
	}

	return g, nil
}

// UpdateClusters applies user edits to the concept clusters of a session:
// renaming clusters and moving variables between them. Edits referencing a
// cluster or variable that does not belong to the session are rejected with
// store.ErrUnknownID. A cluster with an empty ID is created.
func (s *GraphDBStorage) UpdateClusters(ctx context.Context, sessionID string, clusters []common.Cluster) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	existingClusters, err := collectIDs(ctx, tx, `SELECT id FROM clusters WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	existingVariables, err := collectIDs(ctx, tx, `SELECT id FROM variables WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if len(existingVariables) == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`,
			sessionID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		return store.ErrEmptyGraph
	}

	for _, c := range clusters {
		clusterID := c.ID
		if clusterID == "" {
			clusterID, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate cluster ID: %w", err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO clusters (id, session_id, label)
				VALUES ($1, $2, $3)`,
				clusterID, sessionID, c.Label,
			); err != nil {
				return err
			}
		} else {
			if _, ok := existingClusters[clusterID]; !ok {
				return fmt.Errorf("%w: cluster %s", store.ErrUnknownID, clusterID)
			}
			if _, err := tx.Exec(ctx, `
				UPDATE clusters SET label = $3
				WHERE id = $1 AND session_id = $2`,
				clusterID, sessionID, c.Label,
			); err != nil {
				return err
			}
		}

		for _, vID := range store.DedupeStrings(c.Variables) {
			if _, ok := existingVariables[vID]; !ok {
				return fmt.Errorf("%w: variable %s", store.ErrUnknownID, vID)
			}
			if _, err := tx.Exec(ctx, `
				UPDATE variables SET cluster_id = $3
				WHERE id = $1 AND session_id = $2`,
				vID, sessionID, clusterID,
			); err != nil {
				return err
			}
		}
	}

	// Drop clusters that lost all members through the edit.
	if _, err := tx.Exec(ctx, `
		DELETE FROM clusters c
		WHERE c.session_id = $1
		AND NOT EXISTS (SELECT 1 FROM variables v WHERE v.cluster_id = c.id)`,
		sessionID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func collectIDs(ctx context.Context, tx pgxv5.Tx, query string, args ...any) (map[string]struct{}, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
