package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeCatalog struct {
	variants map[string]getVariantResponse
}

func (f *fakeCatalog) getVariant(_ interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	var req getVariantRequest
	if err := dec(&req); err != nil {
		return nil, err
	}
	v, ok := f.variants[req.VariantID]
	if !ok {
		return nil, status.Error(codes.NotFound, "variant not found")
	}
	return &v, nil
}

func startCatalog(t *testing.T, catalog *fakeCatalog) *CatalogClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ForceServerCodec(jsonCodec{}))
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: "catalog.v1.CatalogService",
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetVariant", Handler: catalog.getVariant},
		},
	}, struct{}{})
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	c, err := NewCatalogClient("passthrough:///bufnet", time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGetVariant(t *testing.T) {
	c := startCatalog(t, &fakeCatalog{variants: map[string]getVariantResponse{
		"v-1": {
			ID:                 "v-1",
			Price:              decimal.NewFromInt(8000),
			Type:               "slice",
			ProductName:        "Chocolate Cake",
			ProductAvailable:   true,
			ProductMaxQuantity: 10,
		},
	}})

	v, err := c.GetVariant(context.Background(), "v-1")

	require.NoError(t, err)
	assert.Equal(t, "v-1", v.ID)
	assert.True(t, v.Price.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, "Chocolate Cake", v.ProductName)
	assert.Equal(t, 10, v.ProductMaxQuantity)
	assert.True(t, v.ProductAvailable)
	assert.False(t, v.Deleted)
}

func TestGetVariantNotFound(t *testing.T) {
	c := startCatalog(t, &fakeCatalog{variants: map[string]getVariantResponse{}})

	_, err := c.GetVariant(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
