package storesvc

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
)

const DefaultReconnectDelay = 2 * time.Second

var errStreamEnded = errors.New("subscription stream ended by server")

// Client implements docstore.Store against a remote DocumentStore service.
// Subscriptions survive stream failures: the failure is reported as one
// error event, then the client resubscribes after the reconnect delay.
type Client struct {
	conn           grpc.ClientConnInterface
	closer         io.Closer
	reconnectDelay time.Duration
}

var _ docstore.Store = (*Client)(nil)

// Dial connects to addr without transport security.
func Dial(addr string, reconnectDelay time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	c := NewClient(conn, reconnectDelay)
	c.closer = conn
	return c, nil
}

// NewClient wraps conn. The caller keeps ownership of conn.
func NewClient(conn grpc.ClientConnInterface, reconnectDelay time.Duration) *Client {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	return &Client{conn: conn, reconnectDelay: reconnectDelay}
}

func (c *Client) Subscribe(ctx context.Context, collection string) (docstore.Subscription, error) {
	if collection == "" {
		return nil, docstore.ErrEmptyCollection
	}
	ctx, cancel := context.WithCancel(ctx)
	feed := docstore.NewFeed(cancel)
	go c.run(ctx, collection, feed)
	return feed, nil
}

func (c *Client) run(ctx context.Context, collection string, feed *docstore.Feed) {
	defer feed.Close()
	for {
		err := c.stream(ctx, collection, feed)
		if ctx.Err() != nil {
			return
		}
		glog.Warningf("[storesvc]subscription %s failed: %v", collection, err)
		if !feed.Publish(docstore.Event{Err: fromStatus(err)}) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnectDelay):
		}
		glog.V(1).Infof("[storesvc]resubscribe %s", collection)
	}
}

// stream runs one server stream until it fails or the feed closes.
func (c *Client) stream(ctx context.Context, collection string, feed *docstore.Feed) error {
	stream, err := c.conn.NewStream(ctx, &ServiceDesc.Streams[0], methodSubscribe)
	if err != nil {
		return err
	}
	if err := stream.SendMsg(wrapperspb.String(collection)); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if err == io.EOF {
				return errStreamEnded
			}
			return err
		}
		if !feed.Publish(decodeEvent(msg)) {
			return nil
		}
	}
}

func (c *Client) GenerateKey(ctx context.Context, collection string) (string, error) {
	if collection == "" {
		return "", docstore.ErrEmptyCollection
	}
	out := new(wrapperspb.StringValue)
	if err := c.conn.Invoke(ctx, methodGenerateKey, wrapperspb.String(collection), out); err != nil {
		return "", fromStatus(err)
	}
	return out.GetValue(), nil
}

func (c *Client) Write(ctx context.Context, collection, key string, doc docstore.Document) error {
	if doc == nil {
		return docstore.ErrNilDocument
	}
	req, err := encodeWrite(collection, key, doc)
	if err != nil {
		return err
	}
	return fromStatus(c.conn.Invoke(ctx, methodWrite, req, new(emptypb.Empty)))
}

func (c *Client) Delete(ctx context.Context, collection, key string) error {
	return fromStatus(c.conn.Invoke(ctx, methodDelete, encodePath(collection, key), new(emptypb.Empty)))
}

func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
