package monitor

import (
	"net/url"
	"strings"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Queue wraps the MQTT client used to publish events. Publishing only; the
// simulation never consumes anything from the broker.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
}

// ClientOptionsFromURL creates ClientOptions from URL. The URL path becomes
// the topic prefix; a client-id query parameter overrides the default id
// derived from the machine.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetClientID(defaultClientID())
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}
	return opts, topicPrefix, nil
}

// NewQueueFromURL creates a connected-on-demand Queue from URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	q := &Queue{TopicPrefix: topicPrefix}
	opts.SetOnConnectHandler(func(paho.Client) {
		glog.Info("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(c paho.Client, err error) {
		glog.Warningf("mqtt connection lost: %v", err)
	})
	q.Client = paho.NewClient(opts)
	return q, nil
}

// Connect connects the client and waits for the result.
func (q *Queue) Connect() error {
	token := q.Client.Connect()
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Pub publishes to a topic under the prefix.
func (q *Queue) Pub(topic string, payload []byte) error {
	token := q.Client.Publish(q.TopicPrefix+topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// defaultClientID identifies this process to the broker, unique per machine.
func defaultClientID() string {
	id, err := machineid.ID()
	if err != nil || len(id) < 8 {
		return "uartsim"
	}
	return "uartsim-" + id[:8]
}
