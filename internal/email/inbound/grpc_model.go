package inbound

import (
	"context"

	"github.com/shandysiswandi/mailgate/internal/pkg/rpc"
	"google.golang.org/grpc"
)

const sendEmailFullMethod = "/email.EmailService/SendEmail"

// RPCEmailRequest is the wire shape of email.EmailService/SendEmail requests.
// The body field is named content on this surface, unlike the JSON surface.
type RPCEmailRequest struct {
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RPCEmailResponse is the wire shape of email.EmailService/SendEmail replies.
// Timestamp is RFC 3339 text.
type RPCEmailResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type emailServiceServer interface {
	SendEmail(ctx context.Context, in *RPCEmailRequest) (*RPCEmailResponse, error)
}

var emailServiceDesc = grpc.ServiceDesc{
	ServiceName: "email.EmailService",
	HandlerType: (*emailServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SendEmail",
			Handler:    sendEmailHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "email/email_service",
}

func sendEmailHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RPCEmailRequest)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(emailServiceServer).SendEmail(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: sendEmailFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(emailServiceServer).SendEmail(ctx, req.(*RPCEmailRequest))
	}

	return interceptor(ctx, in, info, handler)
}

// EmailServiceClient is the caller-side stub for email.EmailService. It pins
// the JSON content subtype so the registered codec is used on both ends.
type EmailServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEmailServiceClient(cc grpc.ClientConnInterface) *EmailServiceClient {
	return &EmailServiceClient{cc: cc}
}

func (c *EmailServiceClient) SendEmail(ctx context.Context, in *RPCEmailRequest, opts ...grpc.CallOption) (*RPCEmailResponse, error) {
	out := new(RPCEmailResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(rpc.CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, sendEmailFullMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
