package mailbox

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/mail"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"
)

const defaultSentFolder = "[Gmail]/Sent Mail"

// Config holds the IMAP connection settings for the sent-mail scan.
type Config struct {
	// Addr is host:port of the IMAPS endpoint.
	Addr     string
	Username string
	Password string
	// Folder is the sent-mail folder name. Defaults to the Gmail one.
	Folder string
}

// Client derives the recipient history from a mailbox's sent folder. A fresh
// connection is opened per call and closed on every path.
type Client struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Folder == "" {
		cfg.Folder = defaultSentFolder
	}
	return &Client{cfg: cfg, logger: logger}
}

// Recipients scans the sent folder headers and returns the set of "To"
// addresses. Any failure here is returned to the caller: silently skipping
// the scan risks contacting the same recipient twice.
func (c *Client) Recipients(ctx context.Context) (History, error) {
	if c.cfg.Addr == "" {
		return nil, errors.New("imap address is required")
	}
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return nil, errors.New("imap username/password is required")
	}

	conn, err := imapclient.DialTLS(c.cfg.Addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	if err := conn.Login(c.cfg.Username, c.cfg.Password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	if _, err := conn.Select(c.cfg.Folder, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %q: %w", c.cfg.Folder, err)
	}

	searchData, err := conn.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	history := History{}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return history, nil
	}

	section := &imap.FetchItemBodySection{
		Specifier:    imap.PartSpecifierHeader,
		HeaderFields: []string{"To", "Cc", "From", "Subject", "Date"},
		Peek:         true,
	}

	fetchCmd := conn.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	})
	defer func() { _ = fetchCmd.Close() }()

	for {
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}

		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		raw := buf.FindBodySection(section)
		if len(raw) == 0 {
			continue
		}

		history.AddHeaderRecipients(headerValue(raw, "To"))
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}

	if err := conn.Logout().Wait(); err != nil {
		c.logger.Debug("imap logout failed", zap.Error(err))
	}

	c.logger.Debug("scanned sent folder",
		zap.String("folder", c.cfg.Folder),
		zap.Int("messages", len(uids)),
		zap.Int("recipients", history.Len()),
	)

	return history, nil
}

// headerValue extracts a single header from a raw header block. The fetched
// block may lack the terminating blank line net/mail expects.
func headerValue(raw []byte, key string) string {
	msg, err := mail.ReadMessage(bytes.NewReader(append(raw, "\r\n"...)))
	if err != nil {
		return ""
	}
	return msg.Header.Get(key)
}
