package services

import (
	"context"
	"fmt"
	"strings"

	"venha/internal/domain"
)

type rsvpNotifier struct {
	mailer domain.Mailer
}

// NewRSVPNotifier returns a Notifier that emails the host through the given
// mailer.
func NewRSVPNotifier(mailer domain.Mailer) domain.Notifier {
	return &rsvpNotifier{mailer: mailer}
}

func (n *rsvpNotifier) RSVPCreated(ctx context.Context, event *domain.Event, host *domain.Host, attendee *domain.Attendee) error {
	subject := fmt.Sprintf("Novo RSVP para %s", event.Title)
	var b strings.Builder
	fmt.Fprintf(&b, "Nova Confirmação de Presença!\n")
	fmt.Fprintf(&b, "%s confirmou presença no seu evento: %s\n\n", attendee.Name, event.Title)
	fmt.Fprintf(&b, "Detalhes:\n")
	fmt.Fprintf(&b, "  - Adultos: %d\n", attendee.NumAdults)
	fmt.Fprintf(&b, "  - Crianças: %d\n", attendee.NumChildren)
	fmt.Fprintf(&b, "  - WhatsApp: %s\n", attendee.WhatsAppNumber)
	if attendee.Comments != "" {
		fmt.Fprintf(&b, "  - Comentários: %s\n", attendee.Comments)
	}
	fmt.Fprintf(&b, "\nVeja todos os convidados no seu painel.\n")
	return n.mailer.Send(host.Email, subject, "", b.String())
}

func (n *rsvpNotifier) RSVPModified(ctx context.Context, event *domain.Event, host *domain.Host, attendee *domain.Attendee) error {
	subject := fmt.Sprintf("RSVP Modificado - %s", event.Title)
	var b strings.Builder
	fmt.Fprintf(&b, "RSVP Modificado\n")
	fmt.Fprintf(&b, "%s modificou a confirmação para: %s\n\n", attendee.Name, event.Title)
	fmt.Fprintf(&b, "Detalhes Atualizados:\n")
	fmt.Fprintf(&b, "  - Adultos: %d\n", attendee.NumAdults)
	fmt.Fprintf(&b, "  - Crianças: %d\n", attendee.NumChildren)
	comments := attendee.Comments
	if comments == "" {
		comments = "Nenhum"
	}
	fmt.Fprintf(&b, "  - Comentários: %s\n", comments)
	return n.mailer.Send(host.Email, subject, "", b.String())
}

func (n *rsvpNotifier) RSVPCancelled(ctx context.Context, event *domain.Event, host *domain.Host, attendee *domain.Attendee, reason string) error {
	subject := fmt.Sprintf("RSVP Cancelado - %s", event.Title)
	var b strings.Builder
	fmt.Fprintf(&b, "RSVP Cancelado\n")
	fmt.Fprintf(&b, "%s cancelou a presença em: %s\n", attendee.Name, event.Title)
	if reason != "" {
		fmt.Fprintf(&b, "\nMotivo: %s\n", reason)
	}
	return n.mailer.Send(host.Email, subject, "", b.String())
}
