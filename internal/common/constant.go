package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on inbound and outbound requests.
const AccessTokenHeaderName = "access_token"

// AuthServiceName is the fully qualified name of the gRPC auth service.
const AuthServiceName = "gatekeeper.v1.AuthService"

// Full gRPC method names of the auth service.
const (
	MethodRegister    = "/" + AuthServiceName + "/Register"
	MethodLogin       = "/" + AuthServiceName + "/Login"
	MethodCheckStatus = "/" + AuthServiceName + "/CheckStatus"
	MethodSetRoles    = "/" + AuthServiceName + "/SetRoles"
	MethodSetActive   = "/" + AuthServiceName + "/SetActive"
)
