// Package grpcserver implements the DirectoryService gRPC server.
//
// It delegates all business logic to directory.Service and handles
// only the gRPC transport concerns: metadata extraction, error mapping,
// and type conversion between the domain model and protobuf Struct messages.
package grpcserver

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"bizdir/directory-gateway/internal/directory"
	"bizdir/directory-gateway/internal/search"
)

// Server implements DirectoryServer.
type Server struct {
	svc *directory.Service
}

// NewServer constructs a gRPC Server backed by the given directory.Service.
func NewServer(svc *directory.Service) *Server {
	return &Server{svc: svc}
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// Health reports store connectivity. Unreachable stores map to Unavailable.
func (s *Server) Health(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.svc.Health(ctx); err != nil {
		slog.Warn("grpc health check failed", "err", err)
		return nil, status.Error(codes.Unavailable, "database disconnected")
	}
	return structpb.NewStruct(map[string]any{
		"status":   "healthy",
		"version":  directory.Version,
		"database": "connected",
	})
}

// ListCategories returns the id → name map of all categories.
func (s *Server) ListCategories(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.svc.Categories(ctx)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return stringMapToStruct(m)
}

// ListLocations returns the id → name map of all locations.
func (s *Server) ListLocations(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.svc.Locations(ctx)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return stringMapToStruct(m)
}

// Search expects category_id, location_id (numbers or numeric strings) and
// an optional search_term, and answers {"results": [...]}.
func (s *Server) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := search.ParseQuery(
		stringField(req, "category_id"),
		stringField(req, "location_id"),
		stringField(req, "search_term"),
	)
	if err != nil {
		return nil, toGRPCError(err)
	}

	results, err := s.svc.Search(ctx, q)
	if err != nil {
		return nil, toGRPCError(err)
	}

	items := make([]any, 0, len(results))
	for _, r := range results {
		items = append(items, map[string]any{
			"CompanyName":     optional(r.CompanyName),
			"Description":     optional(r.Description),
			"WebsiteLink":     optional(r.WebsiteLink),
			"AdvertisingTier": optional(r.AdvertisingTier),
		})
	}
	return structpb.NewStruct(map[string]any{"results": items})
}

// GetUserStatus expects phone_number.
func (s *Server) GetUserStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	st, err := s.svc.UserStatus(ctx, stringField(req, "phone_number"))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return structpb.NewStruct(map[string]any{
		"phone_number":      st.PhoneNumber,
		"status":            st.Status,
		"queries_today":     st.QueriesToday,
		"max_queries":       st.MaxQueries,
		"queries_remaining": st.QueriesRemaining,
	})
}

// GetStats returns the table row counts.
func (s *Server) GetStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	st, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return structpb.NewStruct(map[string]any{
		"total_categories": st.TotalCategories,
		"total_locations":  st.TotalLocations,
		"total_companies":  st.TotalCompanies,
		"total_users":      st.TotalUsers,
	})
}

// ─── Interceptors ────────────────────────────────────────────────────────────

// UnaryAuthInterceptor requires "authorization: Bearer <apiToken>" metadata
// on every RPC except Health.
func UnaryAuthInterceptor(apiToken string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if info.FullMethod == MethodHealth {
			return handler(ctx, req)
		}
		token, err := tokenFromCtx(ctx)
		if err != nil {
			return nil, err
		}
		if !directory.TokenEqual(token, apiToken) {
			return nil, status.Error(codes.Unauthenticated, "invalid API token")
		}
		return handler(ctx, req)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// tokenFromCtx extracts the bearer token from incoming gRPC metadata.
func tokenFromCtx(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return "", status.Error(codes.Unauthenticated, "missing or invalid authorization metadata")
	}
	token, ok := directory.BearerToken(vals[0])
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing or invalid authorization metadata")
	}
	return token, nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	var ve *directory.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Msg)
	}
	slog.Error("grpc request failed", "err", err)
	return status.Error(codes.Internal, "internal server error")
}

// stringField reads key as a string. Integral numbers are formatted without
// a fraction so {"category_id": 3} and {"category_id": "3"} are equivalent.
func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	}
	return ""
}

func stringMapToStruct(m map[string]string) (*structpb.Struct, error) {
	fields := make(map[string]any, len(m))
	for k, v := range m {
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
