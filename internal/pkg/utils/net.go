// internal/pkg/utils/net.go
package utils

import (
	"net"

	"github.com/pkg/errors"
)

// GetOutboundIP 返回本机访问外网时使用的 IP，用于服务注册。
// UDP Dial 不会真正发送数据包。
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", errors.Wrap(err, "dial udp")
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
