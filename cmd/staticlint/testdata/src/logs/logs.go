package logs

import "go.uber.org/zap"

func fields(err error) []zap.Field {
	return []zap.Field{
		zap.String("username", "admin"),
		zap.String("password", "hunter2"), // want `zap field "password" may leak a credential`
		zap.String("api_token", "abc"),    // want `zap field "api_token" may leak a credential`
		zap.Int("JWTSecretLen", 32),       // want `zap field "JWTSecretLen" may leak a credential`
		zap.Error(err),
	}
}
