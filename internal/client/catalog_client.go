package client

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const getVariantMethod = "/catalog.v1.CatalogService/GetVariant"

type getVariantRequest struct {
	VariantID string `json:"variant_id"`
}

type getVariantResponse struct {
	ID                 string          `json:"id"`
	Price              decimal.Decimal `json:"price"`
	Type               string          `json:"type"`
	ProductName        string          `json:"product_name"`
	ProductAvailable   bool            `json:"product_available"`
	ProductMaxQuantity int             `json:"product_max_quantity"`
	Deleted            bool            `json:"deleted"`
}

type CatalogClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

func NewCatalogClient(addr string, timeout time.Duration, opts ...grpc.DialOption) (*CatalogClient, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy": "round_robin"}`),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, err
	}

	return &CatalogClient{
		conn:    conn,
		timeout: timeout,
	}, nil
}

func (c *CatalogClient) GetVariant(ctx context.Context, variantID string) (*domain.Variant, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var resp getVariantResponse
	err := c.conn.Invoke(ctx, getVariantMethod, &getVariantRequest{VariantID: variantID}, &resp, grpc.ForceCodec(jsonCodec{}))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: variant %s", domain.ErrNotFound, variantID)
		}
		return nil, fmt.Errorf("catalog get variant %s: %w", variantID, err)
	}

	id := resp.ID
	if id == "" {
		id = variantID
	}
	return &domain.Variant{
		ID:                 id,
		Price:              resp.Price,
		Type:               resp.Type,
		ProductName:        resp.ProductName,
		ProductAvailable:   resp.ProductAvailable,
		ProductMaxQuantity: resp.ProductMaxQuantity,
		Deleted:            resp.Deleted,
	}, nil
}

func (c *CatalogClient) Close() error {
	return c.conn.Close()
}
