package summarizer

import "strings"

// parseBullets extracts bullet points from model output. Lines starting
// with "•", "-", or "*" are taken as bullets with the marker stripped.
// Models occasionally ignore the format instruction and return plain
// prose; in that case every non-empty line is kept as a bullet so the
// summary is not lost.
func parseBullets(content string) []string {
	var bullets []string
	var plain []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			bullet := strings.TrimSpace(strings.TrimLeft(line, "•-* "))
			if bullet != "" {
				bullets = append(bullets, bullet)
			}
			continue
		}
		plain = append(plain, line)
	}

	if len(bullets) > 0 {
		return bullets
	}
	return plain
}
