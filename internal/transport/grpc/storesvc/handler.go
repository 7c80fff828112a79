package storesvc

import (
	"context"

	"github.com/golang/glog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
)

// Handler is a thin gRPC adapter over any docstore.Store.
type Handler struct {
	store docstore.Store
}

var _ DocumentStoreServer = (*Handler)(nil)

func NewHandler(store docstore.Store) *Handler {
	return &Handler{store: store}
}

// Subscribe streams snapshots until the client goes away. Store errors are
// sent in-band so the stream survives transient backend failures.
func (h *Handler) Subscribe(req *wrapperspb.StringValue, stream grpc.ServerStream) error {
	ctx := stream.Context()
	collection := req.GetValue()

	sub, err := h.store.Subscribe(ctx, collection)
	if err != nil {
		return mapError(err)
	}
	defer sub.Close()
	glog.V(1).Infof("[storesvc]subscribe %s", collection)

	for {
		select {
		case <-ctx.Done():
			glog.V(1).Infof("[storesvc]subscribe %s ended: %v", collection, ctx.Err())
			return mapError(ctx.Err())
		case ev, ok := <-sub.Events():
			if !ok {
				return status.Error(codes.Unavailable, "subscription closed by store")
			}
			msg, err := eventMessage(ev)
			if err != nil {
				return mapError(err)
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		}
	}
}

func eventMessage(ev docstore.Event) (*structpb.Struct, error) {
	if ev.Err != nil {
		return encodeError(ev.Err), nil
	}
	return encodeSnapshot(ev.Snapshot)
}

func (h *Handler) GenerateKey(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	key, err := h.store.GenerateKey(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}
	return wrapperspb.String(key), nil
}

func (h *Handler) Write(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	collection, key, doc := decodeWrite(req)
	if err := h.store.Write(ctx, collection, key, doc); err != nil {
		return nil, mapError(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *Handler) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	collection, key := decodePath(req)
	if err := h.store.Delete(ctx, collection, key); err != nil {
		return nil, mapError(err)
	}
	return &emptypb.Empty{}, nil
}

// LoggingInterceptor logs failed unary calls.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		glog.Warningf("[storesvc]%s: %v", info.FullMethod, err)
	} else if glog.V(2) {
		glog.Infof("[storesvc]%s ok", info.FullMethod)
	}
	return resp, err
}
