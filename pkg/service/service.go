// Package service wires the issue tree engine to its collaborators: the
// persisted stores, the title resolver, the registered views and the user's
// session.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wedaren/issue-manager/pkg/issuetree"
	"github.com/wedaren/issue-manager/pkg/session"
	"github.com/wedaren/issue-manager/pkg/titles"
	"github.com/wedaren/issue-manager/pkg/views"
)

// Config holds service configuration.
type Config struct {
	// Root is the note root directory; all node file paths are relative
	// to it.
	Root string
	// DataDir holds the title cache and session databases.
	DataDir string
	// Editor opens note files; empty falls back to $EDITOR.
	Editor string
	// QuietPeriod is the expand/collapse flush debounce. Zero selects the
	// default.
	QuietPeriod time.Duration
	// RecentLimit caps the recent view. Zero selects the default.
	RecentLimit int
}

// Service is the core issue manager service.
type Service struct {
	Config  *Config
	Store   *issuetree.Store
	Focus   *issuetree.FocusStore
	Engine  *issuetree.Engine
	Sync    *issuetree.ExpandSync
	Titles  *titles.Resolver
	Views   *views.Registry
	Session *session.Session

	suggest *session.Canceling
	log     *logrus.Logger
}

// New builds the full service: stores, engine, synchronizer, caches and the
// four standard views, all sharing one refresh path.
func New(cfg *Config, log *logrus.Logger) (*Service, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve note root: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("ensure note root: %w", err)
	}
	cfg.Root = root

	store := issuetree.NewStore(root, log)
	focus := issuetree.NewFocusStore(root, log)

	resolver, err := titles.NewResolver(filepath.Join(cfg.DataDir, "titles.db"), root, log)
	if err != nil {
		return nil, fmt.Errorf("open title cache: %w", err)
	}

	sess, err := session.Open(filepath.Join(cfg.DataDir, "session.db"), log)
	if err != nil {
		resolver.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}

	registry := views.NewRegistry(store, log)
	title := resolver.Func(context.Background())
	registry.Register(views.NewOverview(root, title))
	registry.Register(views.NewFocused(root, focus, title))
	registry.Register(views.NewRecent(root, title, cfg.RecentLimit))
	registry.Register(views.NewPARA(root, title))

	engine := issuetree.NewEngine(store, registry, log)

	// Suggestions complete to file paths: those resolve back to nodes,
	// titles do not.
	suggest := session.NewCanceling(&session.PrefixSuggester{
		Candidates: func() []string {
			var out []string
			issuetree.Walk(store.Read().RootNodes, func(n *issuetree.IssueNode) bool {
				out = append(out, n.FilePath)
				return true
			})
			return out
		},
	})

	return &Service{
		Config:  cfg,
		Store:   store,
		Focus:   focus,
		Engine:  engine,
		Sync:    issuetree.NewExpandSync(store, registry, cfg.QuietPeriod, log),
		Titles:  resolver,
		Views:   registry,
		Session: sess,
		suggest: suggest,
		log:     log,
	}, nil
}

// Suggest returns issue titles matching the query, recent-session-cached
// and with latest-request-wins cancellation so a slow lookup can never
// clobber a newer one.
func (s *Service) Suggest(ctx context.Context, query string) ([]string, error) {
	const cacheMaxAge = 30 * time.Second

	cacheKey := "suggest:" + query
	if cached, ok := s.Session.Suggestions(cacheKey, cacheMaxAge); ok {
		return cached, nil
	}

	results, err := s.suggest.Suggest(ctx, query)
	if err != nil {
		return nil, err
	}
	if query != "" {
		if err := s.Session.AddSearch(query); err != nil {
			s.log.WithError(err).Debug("record search history")
		}
	}
	if err := s.Session.CacheSuggestions(cacheKey, results); err != nil {
		s.log.WithError(err).Debug("cache suggestions")
	}
	return results, nil
}

// TitleFunc returns the title lookup bound to ctx.
func (s *Service) TitleFunc(ctx context.Context) issuetree.TitleFunc {
	return s.Titles.Func(ctx)
}

// Targets lists the legal move/attach targets for the given selection,
// breadcrumbs included, with the selection's own subtrees excluded.
func (s *Service) Targets(ctx context.Context, selectedIDs []string) []issuetree.FlattenedNode {
	doc := s.Store.Read()

	var selected []*issuetree.IssueNode
	for _, id := range selectedIDs {
		if n := issuetree.FindNode(doc.RootNodes, issuetree.StripFocusedID(id)); n != nil {
			selected = append(selected, n)
		}
	}
	return issuetree.Flatten(doc.RootNodes, s.TitleFunc(ctx), issuetree.ExcludeIDs(selected))
}

// ResolveID maps a user-supplied reference (node ID, namespaced occurrence
// ID, or note file path relative to the root) to the canonical node ID.
func (s *Service) ResolveID(ref string) (string, error) {
	doc := s.Store.Read()

	canonical := issuetree.StripFocusedID(ref)
	if issuetree.FindNode(doc.RootNodes, canonical) != nil {
		return canonical, nil
	}

	// Fall back to a path lookup: first node referencing the file wins.
	rel := filepath.ToSlash(ref)
	var found string
	issuetree.Walk(doc.RootNodes, func(n *issuetree.IssueNode) bool {
		if n.FilePath == rel {
			found = n.ID
			return false
		}
		return true
	})
	if found != "" {
		return found, nil
	}

	// Last resort: a unique ID prefix, so short IDs from list output work.
	if len(canonical) >= 4 {
		var matches []string
		issuetree.Walk(doc.RootNodes, func(n *issuetree.IssueNode) bool {
			if strings.HasPrefix(n.ID, canonical) {
				matches = append(matches, n.ID)
			}
			return true
		})
		if len(matches) == 1 {
			return matches[0], nil
		}
		if len(matches) > 1 {
			return "", fmt.Errorf("resolve %q: ambiguous prefix (%d matches)", ref, len(matches))
		}
	}
	return "", fmt.Errorf("resolve %q: %w", ref, issuetree.ErrNotFound)
}

// Reveal returns the ancestor chain for a node, preferring its first
// occurrence in the focused view (namespaced IDs) and falling back to the
// canonical tree.
func (s *Service) Reveal(ref string) ([]*issuetree.IssueNode, error) {
	id, err := s.ResolveID(ref)
	if err != nil {
		return nil, err
	}
	doc := s.Store.Read()

	if chain, ok := issuetree.FindFirstFocusedNodeByID(doc, s.Focus.Read(), id); ok {
		return chain, nil
	}
	if chain := issuetree.PathTo(doc.RootNodes, id); chain != nil {
		return chain, nil
	}
	return nil, fmt.Errorf("reveal %q: %w", ref, issuetree.ErrNotFound)
}

// Close flushes pending expand/collapse state and releases every resource.
func (s *Service) Close() error {
	var firstErr error
	if err := s.Sync.Close(); err != nil {
		firstErr = err
	}
	if err := s.Titles.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.Session.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
