package grpcserver_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"bizdir/directory-gateway/internal/directory"
	"bizdir/directory-gateway/internal/grpcserver"
	"bizdir/directory-gateway/internal/search"
)

const testToken = "grpc-token"

func strp(s string) *string { return &s }

type stubRepo struct {
	err error
}

func (r *stubRepo) Ping(context.Context) error { return r.err }

func (r *stubRepo) Categories(context.Context) (map[string]string, error) {
	return map[string]string{"1": "Plumbers"}, r.err
}

func (r *stubRepo) Locations(context.Context) (map[string]string, error) {
	return map[string]string{"10": "Springfield"}, r.err
}

func (r *stubRepo) FetchCompanies(_ context.Context, categoryID, locationID int64) ([]search.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	if categoryID != 1 || locationID != 10 {
		return nil, nil
	}
	return []search.Company{
		{ID: 1, CategoryID: 1, LocationID: 10, CompanyName: strp("Acme Corp"), AdvertisingTier: strp("Free")},
		{ID: 2, CategoryID: 1, LocationID: 10, CompanyName: strp("Bolt Inc"), AdvertisingTier: strp("Premium")},
	}, nil
}

func (r *stubRepo) FindUser(context.Context, string) (directory.User, bool, error) {
	return directory.User{}, false, r.err
}

func (r *stubRepo) Counts(context.Context) (directory.Stats, error) {
	return directory.Stats{TotalCategories: 1, TotalLocations: 1, TotalCompanies: 2, TotalUsers: 0}, r.err
}

// dial starts an in-memory gRPC server with the auth interceptor and returns
// a connected client.
func dial(t *testing.T, repo directory.Repository) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	srv := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryAuthInterceptor(testToken)))
	grpcserver.Register(srv, grpcserver.NewServer(directory.NewService(repo)))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+testToken)
}

func invoke(ctx context.Context, conn *grpc.ClientConn, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	resp := new(structpb.Struct)
	if err := conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func TestSearch_RankedResults(t *testing.T) {
	conn := dial(t, &stubRepo{})

	resp, err := invoke(authed(), conn, grpcserver.MethodSearch, map[string]any{
		"category_id": 1,
		"location_id": "10",
	})
	require.NoError(t, err)

	results := resp.GetFields()["results"].GetListValue().GetValues()
	require.Len(t, results, 2)
	first := results[0].GetStructValue().GetFields()
	assert.Equal(t, "Bolt Inc", first["CompanyName"].GetStringValue())
	assert.Equal(t, "Premium", first["AdvertisingTier"].GetStringValue())
	_, isNull := first["Description"].GetKind().(*structpb.Value_NullValue)
	assert.True(t, isNull, "missing description should be null")
}

func TestSearch_InvalidArgument(t *testing.T) {
	conn := dial(t, &stubRepo{})

	for _, fields := range []map[string]any{
		{"location_id": 10},
		{"category_id": 1.5, "location_id": 10},
		{"category_id": "one", "location_id": 10},
	} {
		_, err := invoke(authed(), conn, grpcserver.MethodSearch, fields)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "%v", fields)
	}
}

func TestSearch_UpstreamFailureIsOpaque(t *testing.T) {
	conn := dial(t, &stubRepo{err: errors.New("dial tcp 10.0.0.5:5432: i/o timeout")})

	_, err := invoke(authed(), conn, grpcserver.MethodSearch, map[string]any{"category_id": 1, "location_id": 10})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal server error", st.Message())
}

func TestAuthInterceptor(t *testing.T) {
	conn := dial(t, &stubRepo{})

	_, err := invoke(context.Background(), conn, grpcserver.MethodListCategories, nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	badCtx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer wrong")
	_, err = invoke(badCtx, conn, grpcserver.MethodListCategories, nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	resp, err := invoke(authed(), conn, grpcserver.MethodListCategories, nil)
	require.NoError(t, err)
	assert.Equal(t, "Plumbers", resp.GetFields()["1"].GetStringValue())
}

func TestHealth_NoAuthRequired(t *testing.T) {
	conn := dial(t, &stubRepo{})

	resp, err := invoke(context.Background(), conn, grpcserver.MethodHealth, nil)
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.GetFields()["status"].GetStringValue())
	assert.Equal(t, directory.Version, resp.GetFields()["version"].GetStringValue())
}

func TestHealth_Unavailable(t *testing.T) {
	conn := dial(t, &stubRepo{err: errors.New("refused")})

	_, err := invoke(context.Background(), conn, grpcserver.MethodHealth, nil)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestGetUserStatus(t *testing.T) {
	conn := dial(t, &stubRepo{})

	resp, err := invoke(authed(), conn, grpcserver.MethodGetUserStatus, map[string]any{"phone_number": "+15550000"})
	require.NoError(t, err)
	f := resp.GetFields()
	assert.Equal(t, "free", f["status"].GetStringValue())
	assert.Equal(t, float64(10), f["queries_remaining"].GetNumberValue())

	_, err = invoke(authed(), conn, grpcserver.MethodGetUserStatus, nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetStatsAndLocations(t *testing.T) {
	conn := dial(t, &stubRepo{})

	resp, err := invoke(authed(), conn, grpcserver.MethodGetStats, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2), resp.GetFields()["total_companies"].GetNumberValue())

	resp, err = invoke(authed(), conn, grpcserver.MethodListLocations, nil)
	require.NoError(t, err)
	assert.Equal(t, "Springfield", resp.GetFields()["10"].GetStringValue())
}
