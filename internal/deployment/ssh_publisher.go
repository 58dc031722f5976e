package deployment

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

// SSHPublisher pushes exported CSV files to a remote host over SCP so a
// finished run can land directly on the box that serves the stats.
type SSHPublisher struct {
	keyPath   string
	targetURL string
	client    *ssh.Client
	connected bool
}

// NewSSHPublisher creates a publisher for a target in user@host:path form.
// keyPath may be empty, in which case "deploy.pem" in the working directory
// is used.
func NewSSHPublisher(targetURL, keyPath string) *SSHPublisher {
	if keyPath == "" {
		keyPath = "deploy.pem"
	}
	return &SSHPublisher{
		keyPath:   keyPath,
		targetURL: targetURL,
	}
}

// parseTargetURL parses the target in format: user@host:path
func (p *SSHPublisher) parseTargetURL() (user, host, remoteDir string, err error) {
	if p.targetURL == "" {
		return "", "", "", fmt.Errorf("publish target is empty")
	}

	parts := strings.SplitN(p.targetURL, "@", 2)
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("invalid publish target: expected user@host:path")
	}
	user = parts[0]

	hostParts := strings.SplitN(parts[1], ":", 2)
	if len(hostParts) != 2 {
		return "", "", "", fmt.Errorf("invalid publish target: expected user@host:path")
	}
	host = hostParts[0]
	remoteDir = hostParts[1]

	return user, host, remoteDir, nil
}

// Connect establishes the SSH connection
func (p *SSHPublisher) Connect() error {
	if p.connected {
		return nil
	}

	user, host, _, err := p.parseTargetURL()
	if err != nil {
		return fmt.Errorf("failed to parse publish target: %w", err)
	}

	keyData, err := os.ReadFile(p.keyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key file %s: %w", p.keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse SSH private key: %w", err)
	}

	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // In production, use proper host key verification
		Timeout:         30 * time.Second,
	}

	p.client, err = ssh.Dial("tcp", net.JoinHostPort(host, "22"), config)
	if err != nil {
		return fmt.Errorf("failed to connect to SSH server %s: %w", host, err)
	}

	p.connected = true
	log.Info().
		Str("host", host).
		Str("user", user).
		Msg("Connected to publish host")

	return nil
}

// Disconnect closes the SSH connection
func (p *SSHPublisher) Disconnect() error {
	if p.client != nil {
		err := p.client.Close()
		p.connected = false
		p.client = nil
		return err
	}
	return nil
}

// PublishExports uploads each local file to the remote directory, keeping the
// local base name. The connection is reused across files.
func (p *SSHPublisher) PublishExports(localPaths []string) error {
	if err := p.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for _, localPath := range localPaths {
		if err := p.publishFile(localPath); err != nil {
			return err
		}
	}
	return nil
}

// publishFile uploads one file via an SCP sink session
func (p *SSHPublisher) publishFile(localPath string) error {
	_, _, remoteDir, err := p.parseTargetURL()
	if err != nil {
		return fmt.Errorf("failed to parse publish target: %w", err)
	}

	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer localFile.Close()

	fileInfo, err := localFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat local file: %w", err)
	}

	session, err := p.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	filename := filepath.Base(localPath)
	remoteFilePath := filepath.Join(remoteDir, filename)
	scpCmd := fmt.Sprintf("scp -t %s", remoteFilePath)

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := session.Start(scpCmd); err != nil {
		return fmt.Errorf("failed to start SCP session: %w", err)
	}

	// SCP sink protocol: file header, content, zero byte terminator
	header := fmt.Sprintf("C0644 %d %s\n", fileInfo.Size(), filename)
	if _, err := stdin.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to write SCP header: %w", err)
	}
	if _, err := io.Copy(stdin, localFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	if _, err := stdin.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to write SCP end marker: %w", err)
	}

	stdin.Close()
	if err := session.Wait(); err != nil {
		return fmt.Errorf("SCP session failed: %w", err)
	}

	log.Info().
		Str("local_path", localPath).
		Str("remote_path", remoteFilePath).
		Int64("size", fileInfo.Size()).
		Msg("Published export via SCP")

	return nil
}
